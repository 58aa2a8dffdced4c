package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	apierrors "penguindash/internal/errors"
	"penguindash/internal/infrastructure"
)

// HandlerConfig configures the upgrade endpoint
type HandlerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	Client          ClientConfig
}

// Handler upgrades GET /ws and attaches the connection to the caller's
// session
type Handler struct {
	hub       *Hub
	selection SelectionHandler
	sessionOf func(*http.Request) string
	upgrader  websocket.Upgrader
	cfg       HandlerConfig
	logger    *slog.Logger
}

// NewHandler creates the upgrade handler. sessionOf returns the session
// bound to the request.
func NewHandler(hub *Hub, selection SelectionHandler, sessionOf func(*http.Request) string, cfg HandlerConfig, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:       hub,
		selection: selection,
		sessionOf: sessionOf,
		cfg:       cfg,
		logger:    logger.With(slog.String("handler", "websocket")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := h.sessionOf(r)
	if sessionID == "" {
		apierrors.WriteError(w, apierrors.ErrSessionNotFound)
		return
	}

	// Upgrade writes its own response, so a cookie issued for a new
	// session has to travel in the handshake headers
	var header http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		// the upgrader has already answered the request
		h.logger.WarnContext(ctx, "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		h.hub.counters.RecordError("upgrade")
		return
	}

	client := NewClient(h.hub, h.selection, gorillaConn{conn}, sessionID,
		infrastructure.GetTraceID(ctx), h.cfg.Client, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// checkOrigin accepts same-host requests and the configured origins
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}

	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	h.logger.WarnContext(r.Context(), "websocket origin rejected", slog.String("origin", origin))
	return false
}
