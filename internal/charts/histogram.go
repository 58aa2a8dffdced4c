package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram holds equal-width bin counts. Edges has one more element than
// Counts.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// Bins computes the edges of n equal-width bins spanning values. A single
// distinct value gets a unit-wide span around it.
func Bins(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return floats.Span(make([]float64, n+1), lo, hi)
}

// Count places values into the bins described by edges. Bins are closed on
// the left; the last bin is closed on both sides. Values outside the edges
// are not counted.
func Count(values, edges []float64) Histogram {
	h := Histogram{Edges: edges}
	if len(edges) < 2 {
		return h
	}

	n := len(edges) - 1
	lo, hi := edges[0], edges[n]

	x := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			x = append(x, v)
		}
	}
	sort.Float64s(x)

	// stat.Histogram treats the last divider as exclusive
	dividers := append([]float64(nil), edges...)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	h.Counts = make([]int, n)
	for i, c := range counts {
		h.Counts[i] = int(c)
	}
	return h
}

// Total returns the number of counted values
func (h Histogram) Total() int {
	t := 0
	for _, c := range h.Counts {
		t += c
	}
	return t
}
