package dataset

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "penguindash/internal/errors"
	"penguindash/internal/shared/testutil"
)

func TestLoad(t *testing.T) {
	path := testutil.WritePenguinCSV(t)

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(testutil.FixtureRows()), ds.Len())
	assert.Equal(t, path, ds.Source())

	first := ds.At(0)
	assert.Equal(t, "Adelie", first.Species)
	assert.Equal(t, "Torgersen", first.Island)
	assert.Equal(t, "Male", first.Sex)
	assert.Equal(t, Some(39.1), first.BillLength)
	assert.Equal(t, Some(18.7), first.BillDepth)
	assert.Equal(t, Some(3750), first.BodyMass)
}

func TestLoadMissingValues(t *testing.T) {
	ds, err := Read(strings.NewReader(testutil.PenguinCSV()))
	require.NoError(t, err)

	blank := ds.At(2)
	assert.Equal(t, "Adelie", blank.Species)
	assert.False(t, blank.BillLength.Valid)
	assert.False(t, blank.BillDepth.Valid)
	assert.False(t, blank.BodyMass.Valid)
	assert.Empty(t, blank.Sex)

	noSex := ds.At(5)
	assert.Empty(t, noSex.Sex)
	assert.True(t, noSex.BodyMass.Valid)
}

func TestReadEmptyCellIsMissing(t *testing.T) {
	csv := "species,island,bill_length_mm,bill_depth_mm,body_mass_g,sex\n" +
		"Gentoo,Biscoe,,15.0,5000,\n"

	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.False(t, ds.At(0).BillLength.Valid)
	assert.Empty(t, ds.At(0).Sex)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want error
	}{
		{
			name: "missing column",
			csv:  "species,island,bill_length_mm,bill_depth_mm,sex\nAdelie,Dream,39.0,18.0,male\n",
			want: ErrMissingColumn,
		},
		{
			name: "non numeric measurement",
			csv:  "species,island,bill_length_mm,bill_depth_mm,body_mass_g,sex\nAdelie,Dream,long,18.0,3500,male\n",
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeDataset, appErr.Type)
	assert.Contains(t, appErr.Message, "does/not/exist.csv")
}

func TestReadMalformedCarriesLocation(t *testing.T) {
	csv := "species,island,bill_length_mm,bill_depth_mm,body_mass_g,sex\n" +
		"Adelie,Dream,39.0,18.0,3500,male\n" +
		"Adelie,Dream,39.0,deep,3500,male\n"

	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, 3, appErr.Context["line"])
	assert.Equal(t, ColBillDepth, appErr.Context["column"])
}

func TestProvider(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)

	p, err := OpenProvider(testutil.WritePenguinCSV(t), logger)
	require.NoError(t, err)
	assert.Same(t, p.Get(), p.Get())
	assert.True(t, store.ContainsMessage("dataset loaded"))

	_, err = OpenProvider("missing.csv", logger)
	assert.Error(t, err)
	assert.True(t, store.ContainsMessage("dataset load failed"))
}

func TestViewSelect(t *testing.T) {
	ds, err := Read(strings.NewReader(testutil.PenguinCSV()))
	require.NoError(t, err)

	all := ds.View()
	assert.Equal(t, ds.Len(), all.Len())

	gentoo := all.Select(func(r Record) bool { return r.Species == "Gentoo" })
	assert.Equal(t, []int{6, 7, 8}, gentoo.Indices())
	for _, r := range gentoo.Records() {
		assert.Equal(t, "Gentoo", r.Species)
	}

	assert.True(t, gentoo.Equal(gentoo.Select(func(Record) bool { return true })))
	assert.False(t, gentoo.Equal(all))
	assert.Equal(t, []float64{46.1, 50.0, 44.5}, gentoo.Values(ColBillLength))

	var empty View
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Records())
}

func TestRecordsAreCopies(t *testing.T) {
	ds := New([]Record{{Species: "Adelie"}})

	rows := ds.Records()
	rows[0].Species = "Gentoo"
	assert.Equal(t, "Adelie", ds.At(0).Species)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, Species, Levels(ColSpecies))
	assert.Nil(t, Levels(ColBodyMass))
	assert.True(t, IsNumeric(ColBodyMass))
	assert.False(t, IsNumeric(ColSex))
	assert.True(t, IsCategory(ColIsland))
	assert.Equal(t, "Female", normalizeLevel(" FEMALE "))
}
