package filter

import (
	"sort"
	"strconv"
	"strings"

	"penguindash/internal/dataset"
)

// Plot types for the main chart
const (
	PlotScatter   = "Scatterplot"
	PlotHistogram = "Histogram"
)

// Plot types for the secondary chart
const (
	SecondaryHeatmap = "Correlation Heatmap"
	SecondaryViolin  = "Violin Plot"
)

// Bin count bounds for histograms
const (
	MinBins     = 5
	MaxBins     = 50
	DefaultBins = 20
)

// Slider bounds of the three range controls
var (
	MassBounds       = Range{Low: 2000, High: 6000}
	BillDepthBounds  = Range{Low: 10, High: 25}
	BillLengthBounds = Range{Low: 30, High: 60}
)

// Range is a closed numeric interval
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether m is present and inside the interval
func (r Range) Contains(m dataset.Measure) bool {
	return m.InRange(r.Low, r.High)
}

// Within reports whether r lies inside outer
func (r Range) Within(outer Range) bool {
	return r.Low >= outer.Low && r.High <= outer.High
}

func (r Range) String() string {
	return strconv.FormatFloat(r.Low, 'g', -1, 64) + ":" + strconv.FormatFloat(r.High, 'g', -1, 64)
}

// State is the complete set of sidebar control values of one session
type State struct {
	Plot          string   `json:"plot" validate:"plot"`
	SecondaryPlot string   `json:"secondary_plot" validate:"secondary_plot"`
	XAxis         string   `json:"x_axis" validate:"axis"`
	YAxis         string   `json:"y_axis" validate:"axis"`
	Hue           string   `json:"hue" validate:"hue"`
	Bins          int      `json:"bins" validate:"min=5,max=50"`
	Filter        bool     `json:"filter"`
	Mass          Range    `json:"mass"`
	BillDepth     Range    `json:"bill_depth"`
	BillLength    Range    `json:"bill_length"`
	Sex           []string `json:"sex" validate:"dive,oneof=Male Female"`
	Species       []string `json:"species" validate:"dive,oneof=Adelie Gentoo Chinstrap"`
	Island        []string `json:"island" validate:"dive,oneof=Biscoe Dream Torgersen"`
	ShowTable     bool     `json:"show_table"`
}

// DefaultState returns the controls as a fresh session sees them: filtering
// on, everything included, full slider ranges.
func DefaultState() State {
	return State{
		Plot:          PlotScatter,
		SecondaryPlot: SecondaryHeatmap,
		XAxis:         dataset.ColBillLength,
		YAxis:         dataset.ColBillDepth,
		Hue:           dataset.ColSpecies,
		Bins:          DefaultBins,
		Filter:        true,
		Mass:          MassBounds,
		BillDepth:     BillDepthBounds,
		BillLength:    BillLengthBounds,
		Sex:           append([]string(nil), dataset.Sexes...),
		Species:       append([]string(nil), dataset.Species...),
		Island:        append([]string(nil), dataset.Islands...),
	}
}

// Clone returns a deep copy
func (s State) Clone() State {
	c := s
	c.Sex = append([]string(nil), s.Sex...)
	c.Species = append([]string(nil), s.Species...)
	c.Island = append([]string(nil), s.Island...)
	return c
}

// Key identifies the filter-relevant part of the state. States that select
// the same rows from every dataset share a key; display-only fields do not
// take part.
func (s State) Key() string {
	if !s.Filter {
		return "off"
	}

	var b strings.Builder
	b.WriteString("on")
	for _, part := range [][]string{s.Species, s.Island, s.Sex} {
		b.WriteByte('|')
		b.WriteString(strings.Join(canonical(part), ","))
	}
	for _, r := range []Range{s.Mass, s.BillDepth, s.BillLength} {
		b.WriteByte('|')
		b.WriteString(r.String())
	}
	return b.String()
}

// canonical sorts and deduplicates a set of levels
func canonical(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}
