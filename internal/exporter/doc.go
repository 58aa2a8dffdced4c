// Package exporter writes a filtered view of the penguin table as CSV or
// as an Excel workbook.
//
// Both formats use the table column order of dataset.Columns. CSV output
// writes missing values as "NA", matching the source file, while the
// workbook leaves those cells empty.
//
// Example usage:
//
//	v := filter.Apply(ds, st)
//	if err := exporter.WriteCSV(w, v, exporter.WriteOptions{BOMPrefix: true}); err != nil {
//		return err
//	}
package exporter
