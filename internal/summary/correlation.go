package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"penguindash/internal/filter"
)

// Matrix is a symmetric Pearson correlation matrix. Valid[i][j] is false
// when the coefficient is undefined for that pair.
type Matrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
	Valid   [][]bool    `json:"valid"`
}

// At returns the coefficient for columns i and j
func (m Matrix) At(i, j int) (float64, bool) {
	return m.Values[i][j], m.Valid[i][j]
}

// Correlation computes pairwise Pearson coefficients over the rows of v
// where both values are present. A pair with fewer than two rows or with
// zero variance is undefined.
func Correlation(v filter.View, columns []string) Matrix {
	n := len(columns)
	m := Matrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]float64, n),
		Valid:   make([][]bool, n),
	}
	for i := range columns {
		m.Values[i] = make([]float64, n)
		m.Valid[i] = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairs(v, columns[i], columns[j])
			if len(x) < 2 {
				continue
			}
			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			m.Values[i][j], m.Values[j][i] = r, r
			m.Valid[i][j], m.Valid[j][i] = true, true
		}
	}
	return m
}

func pairs(v filter.View, a, b string) (x, y []float64) {
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		ma, _ := r.Numeric(a)
		mb, _ := r.Numeric(b)
		if ma.Valid && mb.Valid {
			x = append(x, ma.Value)
			y = append(y, mb.Value)
		}
	}
	return x, y
}
