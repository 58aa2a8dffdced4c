package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/dataset"
	"penguindash/internal/shared/testutil"
)

func fixtureFrame(t *testing.T) (size int, species []string) {
	t.Helper()
	df, err := dataset.ReadFrame(strings.NewReader(testutil.PenguinCSV()), "NA")
	require.NoError(t, err)
	return df.Nrow(), df.Col("species").Records()
}

func TestReplicate(t *testing.T) {
	df, err := dataset.ReadFrame(strings.NewReader(testutil.PenguinCSV()), "NA")
	require.NoError(t, err)
	size, species := fixtureFrame(t)

	tests := []struct {
		name   string
		rows   int
		copies int
	}{
		{"exact multiple", size * 3, 3},
		{"copies plus sample", size*2 + 5, 2},
		{"fewer rows than source", 4, 0},
		{"single row", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := replicate(df, tt.rows, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			assert.Equal(t, tt.rows, out.Nrow())
			assert.Equal(t, df.Names(), out.Names())

			got := out.Col("species").Records()
			for i := 0; i < tt.copies*size; i++ {
				assert.Equal(t, species[i%size], got[i], "row %d", i)
			}
		})
	}
}

func TestReplicate_SameSeedSameSample(t *testing.T) {
	df, err := dataset.ReadFrame(strings.NewReader(testutil.PenguinCSV()), "NA")
	require.NoError(t, err)

	a, err := replicate(df, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := replicate(df, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, a.Records(), b.Records())
}

func TestReplicate_Errors(t *testing.T) {
	df, err := dataset.ReadFrame(strings.NewReader(testutil.PenguinCSV()), "NA")
	require.NoError(t, err)

	_, err = replicate(df, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	empty, err := dataset.ReadFrame(strings.NewReader(testutil.PenguinHeader + "\n"))
	if err == nil {
		_, err = replicate(empty, 10, rand.New(rand.NewSource(1)))
		assert.Error(t, err)
	}
}

func TestRun_OutputLoads(t *testing.T) {
	in := testutil.WritePenguinCSV(t)
	out := filepath.Join(t.TempDir(), "big.csv")

	n, err := run(in, out, 100, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	ds, err := dataset.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 100, ds.Len())

	// the all-missing fixture row survives as missing measurements
	missing := 0
	for _, r := range ds.Records()[:12] {
		if !r.BodyMass.Valid {
			missing++
		}
	}
	assert.Equal(t, 1, missing)
}

func TestRun_WritesMissingCellsAsNA(t *testing.T) {
	in := testutil.WritePenguinCSV(t)
	out := filepath.Join(t.TempDir(), "big.csv")

	_, err := run(in, out, 30, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "NaN")
	assert.Contains(t, string(data), ",NA,")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 31)
	assert.Equal(t, testutil.PenguinHeader, lines[0])
}

func TestWriteCSV_EmptyAndFilled(t *testing.T) {
	df, err := dataset.ReadFrame(strings.NewReader("species,body_mass_g\nAdelie,NA\nNA,3500\n"), missingToken)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, df))
	assert.Equal(t, "species,body_mass_g\nAdelie,NA\nNA,3500\n", buf.String())
}

func TestRun_MissingInput(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.csv"), 10, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
