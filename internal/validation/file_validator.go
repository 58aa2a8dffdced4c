package validation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Errors reported by FileValidator
var (
	ErrNotFound      = errors.New("file does not exist")
	ErrNotAFile      = errors.New("path is a directory")
	ErrWrongFormat   = errors.New("unexpected file format")
	ErrMissingHeader = errors.New("missing header column")
)

// FileValidator checks input and output paths of the command line tools
// before they touch the penguin table
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable .csv file whose header row
// names every column in required. Header names are compared without
// surrounding space and case.
func (v *FileValidator) ValidateCSVFile(path string, required ...string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		v.logger.Error("File is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %s is not a CSV file", ErrWrongFormat, path)
	}

	if len(required) == 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s has no header row", ErrWrongFormat, path)
	}
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		v.logger.Error("CSV header is missing columns",
			slog.String("file", path),
			slog.Any("missing", missing))
		return fmt.Errorf("%w: %s", ErrMissingHeader, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateOutputDirectory creates dir when needed and verifies it is
// writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
