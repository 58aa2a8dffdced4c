package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apierrors "penguindash/internal/errors"
)

// Errors returned while loading the penguin table
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformed     = errors.New("malformed value")
)

// missingTokens are the cell values read as missing
var missingTokens = []string{"NA", "NaN", ""}

// Load reads the penguin table from a CSV file
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewDatasetError("open "+path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, apierrors.NewDatasetError("load "+path, err)
	}
	ds.source = path
	return ds, nil
}

// Read parses CSV with a header row. Columns not used by the dashboard are
// ignored.
func Read(r io.Reader) (*Dataset, error) {
	df, err := ReadFrame(r, missingTokens...)
	if err != nil {
		return nil, err
	}

	if err := requireColumns(df, Columns); err != nil {
		return nil, err
	}

	cols := make(map[string]series.Series, len(Columns))
	for _, name := range Columns {
		cols[name] = df.Col(name)
	}

	rows := make([]Record, df.Nrow())
	for i := range rows {
		rec := Record{
			Species: category(cols[ColSpecies], i),
			Island:  category(cols[ColIsland], i),
			Sex:     category(cols[ColSex], i),
		}
		for _, col := range NumericColumns {
			m, err := measure(cols[col], i)
			if err != nil {
				// +2: one for the header, one for 1-based lines
				line := i + 2
				return nil, apierrors.NewParsingError(fmt.Sprintf("line %d column %s", line, col), err).
					WithContext("line", line).
					WithContext("column", col)
			}
			switch col {
			case ColBillLength:
				rec.BillLength = m
			case ColBillDepth:
				rec.BillDepth = m
			case ColBodyMass:
				rec.BodyMass = m
			}
		}
		rows[i] = rec
	}

	return &Dataset{rows: rows}, nil
}

// ReadFrame reads CSV into a dataframe with every column typed as string,
// so cell text survives untouched. Cells equal to one of nan are marked NA.
func ReadFrame(r io.Reader, nan ...string) (dataframe.DataFrame, error) {
	opts := []dataframe.LoadOption{
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	}
	if len(nan) > 0 {
		opts = append(opts, dataframe.NaNValues(nan))
	}

	df := dataframe.ReadCSV(r, opts...)
	if df.Err != nil {
		return df, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

func requireColumns(df dataframe.DataFrame, required []string) error {
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[strings.TrimSpace(name)] = true
	}
	for _, name := range required {
		if !have[name] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return nil
}

func category(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return normalizeLevel(e.String())
}

func measure(s series.Series, i int) (Measure, error) {
	e := s.Elem(i)
	if e.IsNA() {
		return Missing, nil
	}
	raw := strings.TrimSpace(e.String())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Missing, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	return Some(v), nil
}

// Provider hands out the table loaded at startup
type Provider struct {
	ds *Dataset
}

// OpenProvider loads path once. The returned Provider never reloads.
func OpenProvider(path string, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ds, err := Load(path)
	if err != nil {
		logger.Error("dataset load failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", ds.Len()))

	return &Provider{ds: ds}, nil
}

// NewProvider wraps an already loaded dataset
func NewProvider(ds *Dataset) *Provider {
	return &Provider{ds: ds}
}

// Get returns the shared table
func (p *Provider) Get() *Dataset {
	return p.ds
}
