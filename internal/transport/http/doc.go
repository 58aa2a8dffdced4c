// Package http implements the HTTP handlers of the penguin dashboard. Handlers
// stay thin: they decode the request, call a service and render the result
// with go-chi/render.
//
// Every dashboard request runs inside SessionCtx, which binds the request to
// the browser's session cookie. The session id is read back with
// SessionIDFromContext.
//
// # Routes
//
//	GET    /api/dashboard                    full snapshot
//	GET    /api/dashboard/state              current selection
//	PUT    /api/dashboard/state              replace the selection
//	DELETE /api/dashboard/state              restore defaults
//	GET    /api/dashboard/rows               data table card
//	GET    /api/dashboard/summary            value boxes and statistics
//	GET    /api/dashboard/charts/static.png  main chart as PNG
//	GET    /api/dashboard/charts/interactive plotly figure of the main chart
//	GET    /api/dashboard/charts/secondary   heatmap or violin figure
//	GET    /api/dashboard/export.csv         filtered rows as CSV
//	GET    /api/dashboard/export.xlsx        filtered rows as XLSX
//
// # Error Handling
//
// Failures are rendered as RFC 7807 Problem Details by
// errors.ErrorHandler. An invalid selection answers 400 with one entry per
// offending field:
//
//	{
//	  "type": "/errors/validation",
//	  "title": "Validation Failed",
//	  "status": 400,
//	  "errors": [{"field": "bins", "message": "must be at most 50"}]
//	}
package http
