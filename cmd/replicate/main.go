// Command replicate grows the penguin table to a fixed number of rows for
// load testing the dashboard. The table is repeated whole as many times as
// fits, then the remainder is sampled from it with replacement. Missing
// cells are written back as NA.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"

	"penguindash/internal/config"
	"penguindash/internal/dataset"
	"penguindash/internal/infrastructure"
	"penguindash/internal/validation"
)

// missingToken marks a missing cell in both the source and the output
const missingToken = "NA"

func main() {
	in := flag.String("in", "data/palmer_penguins.csv", "source csv")
	out := flag.String("out", "data/palmer_penguins_5000.csv", "output csv")
	rows := flag.Int("rows", 5000, "number of rows to produce")
	seed := flag.Int64("seed", 0, "random seed for sampling (0 picks one from the clock)")
	flag.Parse()

	logger := infrastructure.NewLogger(config.Default().Logging, os.Stderr)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	logger.Info("Replicating dataset",
		slog.String("input", *in),
		slog.String("output", *out),
		slog.Int("rows", *rows),
		slog.Int64("seed", *seed))

	fv := validation.NewFileValidator(logger)
	if err := fv.ValidateCSVFile(*in, dataset.Columns...); err != nil {
		os.Exit(1)
	}
	if err := fv.ValidateOutputDirectory(filepath.Dir(*out)); err != nil {
		os.Exit(1)
	}

	n, err := run(*in, *out, *rows, rand.New(rand.NewSource(*seed)))
	if err != nil {
		logger.Error("Replication failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Dataset written", slog.String("output", *out), slog.Int("rows", n))
}

func run(in, out string, rows int, rng *rand.Rand) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	df, err := dataset.ReadFrame(src, missingToken)
	if err != nil {
		return 0, err
	}

	big, err := replicate(df, rows, rng)
	if err != nil {
		return 0, err
	}

	dst, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	if err := writeCSV(dst, big); err != nil {
		dst.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	return big.Nrow(), nil
}

// writeCSV writes df with a header row. gota renders missing elements as
// NaN, so they are put back to the NA token the source uses.
func writeCSV(w io.Writer, df dataframe.DataFrame) error {
	records := df.Records()
	for j, name := range df.Names() {
		for i, missing := range df.Col(name).IsNaN() {
			if missing {
				records[i+1][j] = missingToken
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// replicate returns a frame of exactly n rows built from df
func replicate(df dataframe.DataFrame, n int, rng *rand.Rand) (dataframe.DataFrame, error) {
	if n <= 0 {
		return dataframe.DataFrame{}, fmt.Errorf("rows must be positive: %d", n)
	}
	size := df.Nrow()
	if size == 0 {
		return dataframe.DataFrame{}, errors.New("source table has no rows")
	}

	var (
		out  dataframe.DataFrame
		have bool
	)
	for i := 0; i < n/size; i++ {
		if !have {
			out, have = df.Copy(), true
			continue
		}
		out = out.RBind(df)
	}

	if rem := n - (n/size)*size; rem > 0 {
		idx := make([]int, rem)
		for i := range idx {
			idx[i] = rng.Intn(size)
		}
		extra := df.Subset(idx)
		if have {
			out = out.RBind(extra)
		} else {
			out = extra
		}
	}

	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("replicate: %w", out.Err)
	}
	return out, nil
}
