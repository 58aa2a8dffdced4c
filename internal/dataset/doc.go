// Package dataset loads the Palmer penguins table and exposes it as an
// immutable, shareable Dataset.
//
// A Dataset is read once at startup and never changes afterwards, so any
// number of goroutines may read it without locking. Filtered subsets are
// represented by View, which holds row indices into its Dataset rather
// than copies of the rows.
//
// Missing values follow the source file: "NA" or an empty cell becomes an
// invalid Measure for numeric columns and an empty string for categorical
// ones. Sex levels are normalized to title case ("male" becomes "Male").
package dataset
