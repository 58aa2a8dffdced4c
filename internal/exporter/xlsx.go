package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"penguindash/internal/dataset"
	"penguindash/internal/filter"
)

// SheetName is the worksheet holding exported rows
const SheetName = "Penguins"

// WriteXLSX writes the rows of v as a single-sheet workbook with a bold,
// frozen header row
func WriteXLSX(w io.Writer, v filter.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(dataset.Columns))
	for i, c := range dataset.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(dataset.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i := 0; i < v.Len(); i++ {
		row := cells(v.At(i))
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
