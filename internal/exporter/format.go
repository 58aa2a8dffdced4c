package exporter

import (
	"strconv"

	"penguindash/internal/dataset"
)

// Missing is written for an absent value in CSV output
const Missing = "NA"

// formatMeasure writes the shortest representation of a present value
func formatMeasure(m dataset.Measure) string {
	if !m.Valid {
		return Missing
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func formatCategory(s string) string {
	if s == "" {
		return Missing
	}
	return s
}

// Record lays a row out in dataset.Columns order, as text
func Record(r dataset.Record) []string {
	return []string{
		formatCategory(r.Species),
		formatCategory(r.Island),
		formatMeasure(r.BillLength),
		formatMeasure(r.BillDepth),
		formatMeasure(r.BodyMass),
		formatCategory(r.Sex),
	}
}

// cells lays a row out for a spreadsheet. Missing values stay blank cells.
func cells(r dataset.Record) []interface{} {
	out := make([]interface{}, 0, len(dataset.Columns))
	for _, s := range []string{r.Species, r.Island} {
		out = append(out, blankIfEmpty(s))
	}
	for _, m := range []dataset.Measure{r.BillLength, r.BillDepth, r.BodyMass} {
		if m.Valid {
			out = append(out, m.Value)
		} else {
			out = append(out, nil)
		}
	}
	return append(out, blankIfEmpty(r.Sex))
}

func blankIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
