package charts

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"penguindash/internal/dataset"
)

// palette is the categorical colour cycle, in hue level order
var palette = []string{"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd"}

func hexColor(i int) string {
	return palette[i%len(palette)]
}

func levelColor(i int) drawing.Color {
	return drawing.ColorFromHex(hexColor(i))
}

// pointStyle renders points only, no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func areaStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1,
		StrokeColor: col,
		FillColor:   col.WithAlpha(220),
	}
}

// group is the rows of one hue level, or every row when the chart is not
// split by hue
type group struct {
	name  string
	color int
	rows  []dataset.Record
}

// groups splits rows by the hue column. Rows with a missing hue value are
// dropped; an unsplit chart keeps everything in one group.
func groups(rows []dataset.Record, hue string, split bool) []group {
	if !split {
		return []group{{name: "all", rows: rows}}
	}

	levels := dataset.Levels(hue)
	out := make([]group, len(levels))
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		out[i] = group{name: l, color: i}
		index[l] = i
	}
	for _, r := range rows {
		v, _ := r.Category(hue)
		if i, ok := index[v]; ok {
			out[i].rows = append(out[i].rows, r)
		}
	}

	kept := out[:0]
	for _, g := range out {
		if len(g.rows) > 0 {
			kept = append(kept, g)
		}
	}
	return kept
}

func values(rows []dataset.Record, column string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if m, _ := r.Numeric(column); m.Valid {
			out = append(out, m.Value)
		}
	}
	return out
}

// points returns paired x/y values where both are present
func points(rows []dataset.Record, x, y string) (xs, ys []float64) {
	for _, r := range rows {
		mx, _ := r.Numeric(x)
		my, _ := r.Numeric(y)
		if mx.Valid && my.Valid {
			xs = append(xs, mx.Value)
			ys = append(ys, my.Value)
		}
	}
	return xs, ys
}
