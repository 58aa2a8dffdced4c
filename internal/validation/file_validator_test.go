package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/shared/testutil"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := t.TempDir()
	file := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, v.ValidateFile(file))
	assert.ErrorIs(t, v.ValidateFile(filepath.Join(dir, "missing.csv")), ErrNotFound)
	assert.ErrorIs(t, v.ValidateFile(dir), ErrNotAFile)
}

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		required []string
		wantErr  error
	}{
		{
			name:     "penguin fixture",
			setup:    testutil.WritePenguinCSV,
			required: []string{"species", "island", "body_mass_g"},
		},
		{
			name: "header with bom and spaces",
			setup: func(t *testing.T) string {
				return testutil.WriteCSV(t, "\ufeffSpecies , island\nAdelie,Dream\n")
			},
			required: []string{"species", "island"},
		},
		{
			name: "missing column",
			setup: func(t *testing.T) string {
				return testutil.WriteCSV(t, "species,island\nAdelie,Dream\n")
			},
			required: []string{"species", "sex"},
			wantErr:  ErrMissingHeader,
		},
		{
			name: "empty file",
			setup: func(t *testing.T) string {
				return testutil.WriteCSV(t, "")
			},
			required: []string{"species"},
			wantErr:  ErrWrongFormat,
		},
		{
			name: "wrong extension",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "penguins.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("species\n"), 0644))
				return path
			},
			wantErr: ErrWrongFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateCSVFile(tt.setup(t), tt.required...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")
	testutil.AssertNoErrors(t, handler)
}

func TestNewFileValidator_NilLogger(t *testing.T) {
	v := NewFileValidator(nil)
	require.NotNil(t, v)
	assert.NotNil(t, v.logger)
}
