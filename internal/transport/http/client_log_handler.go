package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"penguindash/internal/errors"
)

// maxClientMessage caps the length of a logged browser message
const maxClientMessage = 2048

// ClientLogHandler forwards browser-side log entries into the server log
type ClientLogHandler struct {
	logger *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		logger: logger.With(slog.String("handler", "client_log")),
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty"`
}

// Handle processes POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		errors.WriteError(w, errors.ErrInvalidRequest)
		return
	}

	var level slog.Level
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if len(req.Message) > maxClientMessage {
		req.Message = req.Message[:maxClientMessage]
	}

	attrs := []slog.Attr{
		slog.String("client_source", req.Source),
	}
	if sid := SessionIDFromContext(r.Context()); sid != "" {
		attrs = append(attrs, slog.String("session_id", sid))
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), level, req.Message, attrs...)

	render.JSON(w, r, map[string]interface{}{
		"success": true,
	})
}
