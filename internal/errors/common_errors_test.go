package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		want    string
		errType ErrorType
	}{
		{
			name:    "dataset with cause",
			err:     NewDatasetError("open data/palmer_penguins.csv", io.ErrUnexpectedEOF),
			want:    "[DATASET] open data/palmer_penguins.csv: unexpected EOF",
			errType: ErrTypeDataset,
		},
		{
			name:    "config",
			err:     NewConfigError("load from file", io.ErrUnexpectedEOF),
			want:    "[CONFIG] load from file: unexpected EOF",
			errType: ErrTypeConfig,
		},
		{
			name:    "render",
			err:     NewRenderError("histogram", errors.New("no values")),
			want:    "[RENDER] render histogram: no values",
			errType: ErrTypeRender,
		},
		{
			name:    "export",
			err:     NewExportError("csv", nil),
			want:    "[EXPORT] export csv",
			errType: ErrTypeExport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.errType, tt.err.Type)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewParsingError("row 3", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var appErr *AppError
	assert.True(t, errors.As(error(err), &appErr))
}

func TestAppError_WithContext(t *testing.T) {
	err := (&AppError{Type: ErrTypeParsing, Message: "bad cell"}).
		WithContext("row", 4).
		WithContext("column", "bill_depth_mm")

	assert.Equal(t, 4, err.Context["row"])
	assert.Equal(t, "bill_depth_mm", err.Context["column"])
}
