package dataset

import "strings"

// Column names as they appear in the source CSV
const (
	ColSpecies    = "species"
	ColIsland     = "island"
	ColBillLength = "bill_length_mm"
	ColBillDepth  = "bill_depth_mm"
	ColBodyMass   = "body_mass_g"
	ColSex        = "sex"
)

// Columns is the display order of the table
var Columns = []string{ColSpecies, ColIsland, ColBillLength, ColBillDepth, ColBodyMass, ColSex}

// NumericColumns are the measurement columns usable as chart axes
var NumericColumns = []string{ColBillLength, ColBillDepth, ColBodyMass}

// CategoryColumns are the columns usable as a hue
var CategoryColumns = []string{ColSex, ColSpecies, ColIsland}

// Known category levels in display order
var (
	Species = []string{"Adelie", "Gentoo", "Chinstrap"}
	Islands = []string{"Biscoe", "Dream", "Torgersen"}
	Sexes   = []string{"Male", "Female"}
)

// Levels returns the known levels of a categorical column
func Levels(column string) []string {
	switch column {
	case ColSpecies:
		return Species
	case ColIsland:
		return Islands
	case ColSex:
		return Sexes
	}
	return nil
}

// IsNumeric reports whether column is a measurement column
func IsNumeric(column string) bool {
	for _, c := range NumericColumns {
		if c == column {
			return true
		}
	}
	return false
}

// IsCategory reports whether column is a categorical column
func IsCategory(column string) bool {
	return Levels(column) != nil
}

// Measure is an optional measurement
type Measure struct {
	Value float64
	Valid bool
}

// Some returns a present measurement
func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Missing is an absent measurement
var Missing = Measure{}

// InRange reports whether the measurement is present and inside [low, high]
func (m Measure) InRange(low, high float64) bool {
	return m.Valid && m.Value >= low && m.Value <= high
}

// Record is one observed penguin. An empty categorical field is missing.
type Record struct {
	Species    string
	Island     string
	Sex        string
	BillLength Measure
	BillDepth  Measure
	BodyMass   Measure
}

// Numeric returns the measurement stored under column
func (r Record) Numeric(column string) (Measure, bool) {
	switch column {
	case ColBillLength:
		return r.BillLength, true
	case ColBillDepth:
		return r.BillDepth, true
	case ColBodyMass:
		return r.BodyMass, true
	}
	return Missing, false
}

// Category returns the categorical value stored under column
func (r Record) Category(column string) (string, bool) {
	switch column {
	case ColSpecies:
		return r.Species, true
	case ColIsland:
		return r.Island, true
	case ColSex:
		return r.Sex, true
	}
	return "", false
}

// normalizeLevel maps "male", " FEMALE " etc. onto the title-case level
func normalizeLevel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
