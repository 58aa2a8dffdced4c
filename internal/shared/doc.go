// Package shared holds helpers used across the penguin dashboard packages.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - a small Palmer penguins CSV fixture with missing values, written to a
//     temp file with WritePenguinCSV
//
// Nothing here contains dashboard logic. Packages under internal/ may import
// testutil from their _test.go files only.
package shared
