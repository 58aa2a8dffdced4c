package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PenguinHeader is the column layout of the Palmer penguins CSV
const PenguinHeader = "species,island,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,sex,year"

// penguinRows covers every species, island and sex, plus rows with missing
// measurements and missing sex.
var penguinRows = []string{
	"Adelie,Torgersen,39.1,18.7,181,3750,male,2007",
	"Adelie,Torgersen,39.5,17.4,186,3800,female,2007",
	"Adelie,Torgersen,NA,NA,NA,NA,NA,2007",
	"Adelie,Biscoe,37.8,18.3,174,3400,female,2007",
	"Adelie,Dream,39.2,21.1,196,4150,male,2007",
	"Adelie,Dream,36.0,17.9,190,3450,NA,2008",
	"Gentoo,Biscoe,46.1,13.2,211,4500,female,2007",
	"Gentoo,Biscoe,50.0,16.3,230,5700,male,2007",
	"Gentoo,Biscoe,44.5,14.3,216,4100,NA,2008",
	"Chinstrap,Dream,46.5,17.9,192,3500,female,2007",
	"Chinstrap,Dream,50.0,19.5,196,3900,male,2007",
	"Chinstrap,Dream,51.3,19.2,193,3650,male,2009",
}

// FixtureRows returns the raw CSV data rows, without the header
func FixtureRows() []string {
	return append([]string(nil), penguinRows...)
}

// PenguinCSV returns the fixture as CSV text
func PenguinCSV() string {
	return PenguinHeader + "\n" + strings.Join(penguinRows, "\n") + "\n"
}

// WritePenguinCSV writes the fixture to a temp file and returns its path
func WritePenguinCSV(t *testing.T) string {
	t.Helper()
	return WriteCSV(t, PenguinCSV())
}

// WriteCSV writes arbitrary CSV content to a temp file and returns its path
func WriteCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "penguins.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
