package summary

import (
	"github.com/go-gota/gota/series"

	"penguindash/internal/filter"
)

// NoData replaces any statistic computed over zero values
const NoData = "no data"

// Stats describes the present values of one numeric column
type Stats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Empty  bool    `json:"empty"`
}

// Describe summarizes column over the rows of v. Missing values are
// skipped; when none remain the result is Empty and the numbers are zero.
func Describe(v filter.View, column string) Stats {
	values := v.Values(column)
	if len(values) == 0 {
		return Stats{Column: column, Empty: true}
	}

	s := series.Floats(values)
	return Stats{
		Column: column,
		Count:  len(values),
		Mean:   s.Mean(),
		Median: s.Median(),
		Min:    s.Min(),
		Max:    s.Max(),
	}
}

// DescribeAll summarizes each column in order
func DescribeAll(v filter.View, columns []string) []Stats {
	out := make([]Stats, len(columns))
	for i, c := range columns {
		out[i] = Describe(v, c)
	}
	return out
}
