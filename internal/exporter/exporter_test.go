package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
	"penguindash/internal/shared/testutil"
)

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(testutil.PenguinCSV()))
	require.NoError(t, err)
	return ds
}

func TestWriteCSV(t *testing.T) {
	ds := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds.View(), WriteOptions{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, ds.Len()+1)
	assert.Equal(t, dataset.Columns, records[0])
	assert.Equal(t, []string{"Adelie", "Torgersen", "39.1", "18.7", "3750", "Male"}, records[1])
	assert.Equal(t, []string{"Adelie", "Torgersen", "NA", "NA", "NA", "NA"}, records[3])
}

func TestWriteCSVRoundTrips(t *testing.T) {
	ds := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds.View(), WriteOptions{}))

	back, err := dataset.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Records(), back.Records())
}

func TestWriteCSVBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, dataset.View{}, WriteOptions{BOMPrefix: true}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, bom))
	assert.Equal(t, strings.Join(dataset.Columns, ",")+"\n", string(out[len(bom):]))
}

func TestWriteCSVFilteredView(t *testing.T) {
	ds := fixture(t)
	st := filter.DefaultState()
	st.Species = []string{"Chinstrap"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, filter.Apply(ds, st), WriteOptions{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, r := range records[1:] {
		assert.Equal(t, "Chinstrap", r[0])
	}
}

func TestWriteXLSX(t *testing.T) {
	ds := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ds.View()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, ds.Len()+1)
	assert.Equal(t, dataset.Columns, rows[0])
	assert.Equal(t, []string{"Adelie", "Torgersen", "39.1", "18.7", "3750", "Male"}, rows[1])

	// missing values are empty cells
	blank, err := f.GetCellValue(SheetName, "C4")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestWriteXLSXEmptyView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, dataset.View{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRecordFormatting(t *testing.T) {
	r := dataset.Record{Species: "Gentoo", BodyMass: dataset.Some(5000), BillDepth: dataset.Some(14.25)}
	assert.Equal(t, []string{"Gentoo", "NA", "NA", "14.25", "5000", "NA"}, Record(r))
}
