// Package summary computes the scalar statistics shown alongside the
// charts: per column descriptions, the header value boxes and the
// correlation matrix behind the heatmap.
package summary
