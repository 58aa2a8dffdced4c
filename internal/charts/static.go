package charts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"penguindash/internal/filter"
	"penguindash/internal/summary"
)

// Default PNG size
const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

// ErrUnknownPlot is returned for a plot type with no renderer
var ErrUnknownPlot = errors.New("unknown plot type")

// RenderStatic writes the main chart of st as PNG. A view with nothing to
// plot renders a placeholder reading "no data".
func RenderStatic(w io.Writer, v filter.View, st filter.State) error {
	var (
		ch  *chart.Chart
		err error
	)
	switch st.Plot {
	case filter.PlotScatter:
		ch, err = scatterChart(v, st)
	case filter.PlotHistogram:
		ch, err = histogramChart(v, st)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlot, st.Plot)
	}
	if err != nil {
		return err
	}
	if ch == nil {
		return Placeholder(w, DefaultWidth, DefaultHeight, summary.NoData)
	}

	ch.Width = DefaultWidth
	ch.Height = DefaultHeight
	ch.Background = chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}}
	if st.Filter {
		ch.Elements = []chart.Renderable{chart.Legend(ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", st.Plot, err)
	}
	return nil
}

func scatterChart(v filter.View, st filter.State) (*chart.Chart, error) {
	var (
		series     []chart.Series
		allX, allY []float64
	)
	for _, g := range groups(v.Records(), st.Hue, st.Filter) {
		xs, ys := points(g.rows, st.XAxis, st.YAxis)
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g.name,
			Style:   pointStyle(levelColor(g.color)),
			XValues: xs,
			YValues: ys,
		})
		allX = append(allX, xs...)
		allY = append(allY, ys...)
	}
	if len(series) == 0 {
		return nil, nil
	}

	return &chart.Chart{
		Title:  "Scatterplot of Penguin Data",
		XAxis:  chart.XAxis{Name: st.XAxis, Range: padded(allX)},
		YAxis:  chart.YAxis{Name: st.YAxis, Range: padded(allY)},
		Series: series,
	}, nil
}

// histogramChart stacks one filled step outline per hue level. Outlines are
// cumulative and drawn tallest first so each level shows as its own band.
func histogramChart(v filter.View, st filter.State) (*chart.Chart, error) {
	gs := groups(v.Records(), st.Hue, st.Filter)

	var all []float64
	for _, g := range gs {
		all = append(all, values(g.rows, st.XAxis)...)
	}
	edges := Bins(all, st.Bins)
	if edges == nil {
		return nil, nil
	}

	cumulative := make([]int, len(edges)-1)
	layers := make([]chart.Series, 0, len(gs))
	peak := 0
	for _, g := range gs {
		h := Count(values(g.rows, st.XAxis), edges)
		if h.Total() == 0 {
			continue
		}
		for i, c := range h.Counts {
			cumulative[i] += c
			if cumulative[i] > peak {
				peak = cumulative[i]
			}
		}
		xs, ys := steps(edges, cumulative)
		layers = append(layers, chart.ContinuousSeries{
			Name:    g.name,
			Style:   areaStyle(levelColor(g.color)),
			XValues: xs,
			YValues: ys,
		})
	}

	// reverse so the tallest outline is painted first
	for i, j := 0, len(layers)-1; i < j; i, j = i+1, j-1 {
		layers[i], layers[j] = layers[j], layers[i]
	}

	return &chart.Chart{
		Title:  "Histogram of Penguin Data",
		XAxis:  chart.XAxis{Name: st.XAxis, Range: &chart.ContinuousRange{Min: edges[0], Max: edges[len(edges)-1]}},
		YAxis:  chart.YAxis{Name: "Count", Range: &chart.ContinuousRange{Min: 0, Max: float64(peak) * 1.05}},
		Series: layers,
	}, nil
}

// steps turns bin counts into the vertices of a step outline
func steps(edges []float64, counts []int) (xs, ys []float64) {
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

// padded returns the value range widened by 5% on each side
func padded(vals []float64) *chart.ContinuousRange {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// Placeholder writes a blank PNG with text centred on it
func Placeholder(w io.Writer, width, height int, text string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	dr.Dot = fixed.Point26_6{X: fixed.I((width - tw) / 2), Y: fixed.I(height / 2)}
	dr.DrawString(text)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode placeholder: %w", err)
	}
	return nil
}
