package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "penguindash/internal/errors"
	"penguindash/internal/filter"
	customMiddleware "penguindash/internal/middleware"
	"penguindash/internal/services"
)

const (
	// maxStateBody bounds the PUT /state payload
	maxStateBody = 64 << 10
	// maxRowsPage bounds the limit accepted by GET /rows
	maxRowsPage = 1000
)

// DashboardHandler serves the dashboard API for the session bound by
// SessionCtx
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *customMiddleware.QueryParamValidator
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
		query:        customMiddleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dashboard routes, mounted under /api/dashboard
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSnapshot)
	r.Get("/state", h.GetState)
	r.Put("/state", h.PutState)
	r.Delete("/state", h.ResetState)
	r.Get("/rows", h.GetRows)
	r.Get("/summary", h.GetSummary)
	r.Get("/charts/static.png", h.GetStaticChart)
	r.Get("/charts/interactive", h.GetInteractiveChart)
	r.Get("/charts/secondary", h.GetSecondaryChart)
	r.Get("/export", h.ExportByQuery)
	r.Get("/export.csv", h.Export(services.FormatCSV))
	r.Get("/export.xlsx", h.Export(services.FormatXLSX))

	return r
}

// GetSnapshot handles GET /api/dashboard
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// GetState handles GET /api/dashboard/state
func (h *DashboardHandler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.State(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, st)
}

// PutState handles PUT /api/dashboard/state. Fields absent from the body
// keep their default values.
func (h *DashboardHandler) PutState(w http.ResponseWriter, r *http.Request) {
	st := filter.DefaultState()
	r.Body = http.MaxBytesReader(w, r.Body, maxStateBody)
	if err := render.DecodeJSON(r.Body, &st); err != nil {
		h.logger.WarnContext(r.Context(), "invalid selection payload",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	snap, err := h.service.UpdateState(r.Context(), SessionIDFromContext(r.Context()), st)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// ResetState handles DELETE /api/dashboard/state
func (h *DashboardHandler) ResetState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ResetState(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// GetRows handles GET /api/dashboard/rows. The optional offset and limit
// parameters page through the filtered rows; X-Total-Count is always the
// unpaged count.
func (h *DashboardHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Table(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	total := len(table.Rows)
	offset, ok := h.query.ValidateInt(w, r, "offset", 0, total, 0)
	if !ok {
		return
	}
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, maxRowsPage, total)
	if !ok {
		return
	}

	// the table may be shared with the memo, so page a copy
	page := *table
	end := offset + limit
	if end > total {
		end = total
	}
	page.Rows = table.Rows[offset:end]

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	render.JSON(w, r, page)
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, sum)
}

// GetStaticChart handles GET /api/dashboard/charts/static.png
func (h *DashboardHandler) GetStaticChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.RenderStatic(r.Context(), SessionIDFromContext(r.Context()), &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetInteractiveChart handles GET /api/dashboard/charts/interactive
func (h *DashboardHandler) GetInteractiveChart(w http.ResponseWriter, r *http.Request) {
	fig, err := h.service.InteractiveFigure(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, fig)
}

// GetSecondaryChart handles GET /api/dashboard/charts/secondary
func (h *DashboardHandler) GetSecondaryChart(w http.ResponseWriter, r *http.Request) {
	fig, err := h.service.SecondaryFigure(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, fig)
}

// Export returns a handler that downloads the filtered table in format
func (h *DashboardHandler) Export(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeExport(w, r, format)
	}
}

// ExportByQuery handles GET /api/dashboard/export?format=csv|xlsx. The
// format defaults to csv.
func (h *DashboardHandler) ExportByQuery(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format",
		[]string{services.FormatCSV, services.FormatXLSX}, services.FormatCSV)
	if !ok {
		return
	}
	h.writeExport(w, r, format)
}

func (h *DashboardHandler) writeExport(w http.ResponseWriter, r *http.Request, format string) {
	contentType := "text/csv; charset=utf-8"
	if format == services.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), SessionIDFromContext(r.Context()), format, &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "penguins."+format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleError maps service errors onto API errors before rendering
func (h *DashboardHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		err = apierrors.ErrSessionNotFound
	case errors.Is(err, services.ErrUnknownFormat):
		err = apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, services.ErrServiceUnavailable):
		err = apierrors.ErrDatasetUnavailable
	}
	h.errorHandler.HandleError(w, r, err)
}
