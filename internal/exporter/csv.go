package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the rows of v with a header row in table column order
func WriteCSV(w io.Writer, v filter.View, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(bom); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	sw := NewStreamWriter(w)
	if err := sw.WriteRecord(dataset.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < v.Len(); i++ {
		if err := sw.WriteRecord(Record(v.At(i))); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return sw.Close()
}

// StreamWriter writes CSV records one at a time
type StreamWriter struct {
	writer *csv.Writer
}

// NewStreamWriter wraps w
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{writer: csv.NewWriter(w)}
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered records
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}
