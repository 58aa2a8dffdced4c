// Command penguinctl prints the dashboard summary of a filtered view of the
// penguin table to the terminal.
//
//	penguinctl -data data/palmer_penguins.csv -species Gentoo,Adelie -mass 3500:4500
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/olekukonko/tablewriter"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
	"penguindash/internal/summary"
	"penguindash/internal/validation"
)

type options struct {
	data     string
	state    filter.State
	showRows bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("penguinctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	st := filter.DefaultState()
	opts := options{}

	fs.StringVar(&opts.data, "data", "data/palmer_penguins.csv", "penguin csv")
	fs.StringVar(&st.XAxis, "x", st.XAxis, "x axis column")
	fs.StringVar(&st.YAxis, "y", st.YAxis, "y axis column")
	fs.StringVar(&st.Plot, "plot", st.Plot, "Scatterplot or Histogram")
	fs.BoolVar(&opts.showRows, "rows", false, "print the filtered rows")
	noFilter := fs.Bool("no-filter", false, "ignore every filter control")
	species := fs.String("species", strings.Join(st.Species, ","), "comma separated species")
	island := fs.String("island", strings.Join(st.Island, ","), "comma separated islands")
	sex := fs.String("sex", strings.Join(st.Sex, ","), "comma separated sexes")
	mass := fs.String("mass", st.Mass.String(), "body mass range low:high")
	depth := fs.String("bill-depth", st.BillDepth.String(), "bill depth range low:high")
	length := fs.String("bill-length", st.BillLength.String(), "bill length range low:high")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	st.Filter = !*noFilter
	st.Species = splitList(*species)
	st.Island = splitList(*island)
	st.Sex = splitList(*sex)

	var err error
	if st.Mass, err = parseRange(*mass); err != nil {
		return opts, fmt.Errorf("-mass: %w", err)
	}
	if st.BillDepth, err = parseRange(*depth); err != nil {
		return opts, fmt.Errorf("-bill-depth: %w", err)
	}
	if st.BillLength, err = parseRange(*length); err != nil {
		return opts, fmt.Errorf("-bill-length: %w", err)
	}

	if err := st.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, len(verrs))
			for i, fe := range verrs {
				parts[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
			}
			return opts, fmt.Errorf("invalid selection: %s", strings.Join(parts, ", "))
		}
		return opts, err
	}

	opts.state = st
	return opts, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseRange(s string) (filter.Range, error) {
	low, high, ok := strings.Cut(s, ":")
	if !ok {
		return filter.Range{}, fmt.Errorf("want low:high, got %q", s)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(low), 64)
	if err != nil {
		return filter.Range{}, err
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(high), 64)
	if err != nil {
		return filter.Range{}, err
	}
	return filter.Range{Low: l, High: h}, nil
}

func run(opts options, w io.Writer) error {
	fv := validation.NewFileValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := fv.ValidateCSVFile(opts.data, dataset.Columns...); err != nil {
		return err
	}

	ds, err := dataset.Load(opts.data)
	if err != nil {
		return err
	}

	v := filter.Apply(ds, opts.state)

	boxes := tablewriter.NewWriter(w)
	boxes.SetHeader([]string{"Summary", "Value"})
	for _, b := range summary.ValueBoxes(v, opts.state) {
		boxes.Append([]string{b.Title, b.Text})
	}
	boxes.Render()

	axes := []string{opts.state.XAxis}
	if opts.state.Plot == filter.PlotScatter && opts.state.YAxis != opts.state.XAxis {
		axes = append(axes, opts.state.YAxis)
	}

	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"Column", "Count", "Mean", "Median", "Min", "Max"})
	for _, s := range summary.DescribeAll(v, axes) {
		if s.Empty {
			stats.Append([]string{summary.Label(s.Column), "0", "-", "-", "-", "-"})
			continue
		}
		stats.Append([]string{
			summary.Label(s.Column),
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Median),
			formatFloat(s.Min),
			formatFloat(s.Max),
		})
	}
	stats.Render()

	if opts.showRows {
		rows := tablewriter.NewWriter(w)
		rows.SetHeader(dataset.Columns)
		for _, r := range v.Records() {
			rows.Append([]string{
				r.Species,
				r.Island,
				formatMeasure(r.BillLength),
				formatMeasure(r.BillDepth),
				formatMeasure(r.BodyMass),
				r.Sex,
			})
		}
		rows.Render()
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func formatMeasure(m dataset.Measure) string {
	if !m.Valid {
		return ""
	}
	return formatFloat(m.Value)
}
