package charts

import (
	"fmt"
	"strconv"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
	"penguindash/internal/summary"
)

// Figure is a browser plotting spec: a list of traces and a layout, in the
// shape plotly.js accepts.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly trace. Only the attributes the dashboard uses are
// modelled.
type Trace struct {
	Type         string       `json:"type"`
	Name         string       `json:"name,omitempty"`
	Mode         string       `json:"mode,omitempty"`
	X            interface{}  `json:"x,omitempty"`
	Y            interface{}  `json:"y,omitempty"`
	Z            [][]*float64 `json:"z,omitempty"`
	Text         [][]string   `json:"text,omitempty"`
	TextTemplate string       `json:"texttemplate,omitempty"`
	NBinsX       int          `json:"nbinsx,omitempty"`
	XAxis        string       `json:"xaxis,omitempty"`
	YAxis        string       `json:"yaxis,omitempty"`
	Orientation  string       `json:"orientation,omitempty"`
	LegendGroup  string       `json:"legendgroup,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	OffsetGroup  string       `json:"offsetgroup,omitempty"`
	Marker       *Marker      `json:"marker,omitempty"`
	ColorScale   string       `json:"colorscale,omitempty"`
	ReverseScale bool         `json:"reversescale,omitempty"`
	ZMin         *float64     `json:"zmin,omitempty"`
	ZMax         *float64     `json:"zmax,omitempty"`
	Box          *Toggle      `json:"box,omitempty"`
	MeanLine     *Toggle      `json:"meanline,omitempty"`
	Points       interface{}  `json:"points,omitempty"`
}

// Marker sets a trace colour
type Marker struct {
	Color string `json:"color"`
}

// Toggle switches a nested trace feature on or off
type Toggle struct {
	Visible bool `json:"visible"`
}

// Layout is the figure layout
type Layout struct {
	Title      Title   `json:"title"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	YAxis2     *Axis   `json:"yaxis2,omitempty"`
	BarMode    string  `json:"barmode,omitempty"`
	ViolinMode string  `json:"violinmode,omitempty"`
	Legend     *Legend `json:"legend,omitempty"`
}

// Legend carries the legend title
type Legend struct {
	Title Title `json:"title"`
}

// Title is a plotly title object
type Title struct {
	Text string `json:"text"`
}

// Axis is a plotly axis
type Axis struct {
	Title     *Title    `json:"title,omitempty"`
	Domain    []float64 `json:"domain,omitempty"`
	Anchor    string    `json:"anchor,omitempty"`
	ShowTicks *bool     `json:"showticklabels,omitempty"`
}

func axisTitle(text string) *Axis {
	return &Axis{Title: &Title{Text: text}}
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func markerFor(g group) *Marker {
	return &Marker{Color: "#" + hexColor(g.color)}
}

// legendFor names the hue column when traces are split by it
func legendFor(st filter.State, split bool) *Legend {
	if !split {
		return nil
	}
	return &Legend{Title: Title{Text: st.Hue}}
}

// Interactive builds the main chart figure for st
func Interactive(v filter.View, st filter.State) (Figure, error) {
	switch st.Plot {
	case filter.PlotScatter:
		return ScatterFigure(v, st), nil
	case filter.PlotHistogram:
		return HistogramFigure(v, st), nil
	}
	return Figure{}, fmt.Errorf("%w: %q", ErrUnknownPlot, st.Plot)
}

// Secondary builds the secondary diagnostic figure for st
func Secondary(v filter.View, st filter.State) (Figure, error) {
	switch st.SecondaryPlot {
	case filter.SecondaryHeatmap:
		return HeatmapFigure(v), nil
	case filter.SecondaryViolin:
		return ViolinFigure(v, st), nil
	}
	return Figure{}, fmt.Errorf("%w: %q", ErrUnknownPlot, st.SecondaryPlot)
}

// ScatterFigure plots x against y, one trace per hue level when filtering
// is enabled
func ScatterFigure(v filter.View, st filter.State) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:  Title{Text: "Scatterplot of Penguin Data"},
			XAxis:  axisTitle(st.XAxis),
			YAxis:  axisTitle(st.YAxis),
			Legend: legendFor(st, st.Filter),
		},
	}

	for _, g := range groups(v.Records(), st.Hue, st.Filter) {
		xs, ys := points(g.rows, st.XAxis, st.YAxis)
		t := Trace{Type: "scatter", Mode: "markers", X: xs, Y: ys, Marker: markerFor(g)}
		if st.Filter {
			t.Name = g.name
			t.LegendGroup = g.name
		} else {
			t.ShowLegend = boolPtr(false)
		}
		fig.Data = append(fig.Data, t)
	}
	return fig
}

// HistogramFigure stacks one histogram per hue level and puts a box plot
// of each level in a strip above it
func HistogramFigure(v filter.View, st filter.State) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:   Title{Text: "Histogram of Penguin Data"},
			XAxis:   axisTitle(st.XAxis),
			YAxis:   &Axis{Title: &Title{Text: "count"}, Domain: []float64{0, 0.74}},
			YAxis2:  &Axis{Domain: []float64{0.75, 1}, Anchor: "x", ShowTicks: boolPtr(false)},
			BarMode: "stack",
			Legend:  legendFor(st, st.Filter),
		},
	}

	for _, g := range groups(v.Records(), st.Hue, st.Filter) {
		xs := values(g.rows, st.XAxis)
		hist := Trace{Type: "histogram", X: xs, NBinsX: st.Bins, OffsetGroup: "hist", Marker: markerFor(g)}
		box := Trace{Type: "box", X: xs, XAxis: "x", YAxis: "y2", Orientation: "h", ShowLegend: boolPtr(false), Marker: markerFor(g)}
		if st.Filter {
			hist.Name, hist.LegendGroup = g.name, g.name
			box.Name, box.LegendGroup = g.name, g.name
		} else {
			hist.ShowLegend = boolPtr(false)
		}
		fig.Data = append(fig.Data, hist, box)
	}
	return fig
}

// HeatmapFigure draws the correlation matrix of the numeric columns on a
// fixed [-1, 1] diverging scale, each cell annotated with its coefficient
func HeatmapFigure(v filter.View) Figure {
	m := summary.Correlation(v, dataset.NumericColumns)

	n := len(m.Columns)
	z := make([][]*float64, n)
	text := make([][]string, n)
	for i := 0; i < n; i++ {
		z[i] = make([]*float64, n)
		text[i] = make([]string, n)
		for j := 0; j < n; j++ {
			if r, ok := m.At(i, j); ok {
				z[i][j] = floatPtr(r)
				text[i][j] = strconv.FormatFloat(r, 'f', 2, 64)
			}
		}
	}

	return Figure{
		Data: []Trace{{
			Type:         "heatmap",
			X:            m.Columns,
			Y:            m.Columns,
			Z:            z,
			Text:         text,
			TextTemplate: "%{text}",
			ColorScale:   "RdBu",
			ReverseScale: true,
			ZMin:         floatPtr(-1),
			ZMax:         floatPtr(1),
		}},
		Layout: Layout{Title: Title{Text: "Correlation Heatmap"}},
	}
}

// ViolinFigure shows the y axis distribution per species, split by hue,
// with quartile lines drawn inside each violin
func ViolinFigure(v filter.View, st filter.State) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:      Title{Text: "Violin Plot"},
			XAxis:      axisTitle(dataset.ColSpecies),
			YAxis:      axisTitle(st.YAxis),
			ViolinMode: "group",
			Legend:     legendFor(st, true),
		},
	}

	for _, g := range groups(v.Records(), st.Hue, true) {
		var xs []string
		var ys []float64
		for _, r := range g.rows {
			if m, _ := r.Numeric(st.YAxis); m.Valid && r.Species != "" {
				xs = append(xs, r.Species)
				ys = append(ys, m.Value)
			}
		}
		if len(ys) == 0 {
			continue
		}
		fig.Data = append(fig.Data, Trace{
			Type:        "violin",
			Name:        g.name,
			LegendGroup: g.name,
			X:           xs,
			Y:           ys,
			Box:         &Toggle{Visible: true},
			MeanLine:    &Toggle{Visible: false},
			Points:      false,
			Marker:      markerFor(g),
		})
	}
	return fig
}
