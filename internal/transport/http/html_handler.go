package http

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"
)

// PageData is passed to the dashboard template
type PageData struct {
	Title     string
	Version   string
	BuildTime string
}

// HTMLHandler serves the dashboard page and its static assets from an
// embedded filesystem
type HTMLHandler struct {
	tmpl   *template.Template
	static http.Handler
	data   PageData
	logger *slog.Logger
}

// NewHTMLHandler parses index.html from fsys. Assets are served from the
// static/ subtree.
func NewHTMLHandler(fsys fs.FS, data PageData, logger *slog.Logger) (*HTMLHandler, error) {
	tmpl, err := template.ParseFS(fsys, "index.html")
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(fsys, "static")
	if err != nil {
		return nil, err
	}

	return &HTMLHandler{
		tmpl:   tmpl,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		data:   data,
		logger: logger.With(slog.String("handler", "html")),
	}, nil
}

// ServeIndex handles GET /
func (h *HTMLHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, h.data); err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard page render failed",
			slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(buf.Bytes()))
}

// ServeStatic handles GET /static/*
func (h *HTMLHandler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}
