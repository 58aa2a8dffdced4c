// Package charts renders the dashboard plots.
//
// RenderStatic draws the main chart as a PNG with go-chart. Interactive and
// Secondary build figure specs that the page hands to plotly.js. Both
// honour the same rule: traces are split by the hue column only while
// filtering is enabled.
package charts
