package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	apierrors "penguindash/internal/errors"
	"penguindash/internal/filter"
	"penguindash/internal/infrastructure"
	"penguindash/internal/services"
)

// ClientConfig holds the connection timings
type ClientConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period. Must be less than PongWait
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Upper bound for handling one inbound message
	DispatchTimeout time.Duration
}

// DefaultClientConfig returns the standard timings
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingPeriod:      54 * time.Second,
		MaxMessageSize:  16 << 10,
		DispatchTimeout: 10 * time.Second,
	}
}

func (c ClientConfig) withDefaults() ClientConfig {
	d := DefaultClientConfig()
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = (c.PongWait * 9) / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = d.DispatchTimeout
	}
	return c
}

// Client is a middleman between the websocket connection and the hub. It
// belongs to exactly one dashboard session.
type Client struct {
	hub     *Hub
	handler SelectionHandler
	conn    Connection
	cfg     ClientConfig

	// Buffered channel of outbound messages. Only the hub writes to or
	// closes it.
	send chan []byte

	id          string
	sessionID   string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	logger *slog.Logger
}

// NewClient creates a client for sessionID on conn
func NewClient(hub *Hub, handler SelectionHandler, conn Connection, sessionID, traceID string, cfg ClientConfig, logger *slog.Logger) *Client {
	id := uuid.New().String()
	logger = infrastructure.WithComponent(logger, "websocket.client").With(
		slog.String("client_id", id),
		slog.String("session_id", sessionID),
	)

	return &Client{
		hub:         hub,
		handler:     handler,
		conn:        conn,
		cfg:         cfg.withDefaults(),
		send:        make(chan []byte, 64),
		id:          id,
		sessionID:   sessionID,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

// ID returns the connection id
func (c *Client) ID() string { return c.id }

// SessionID returns the session the connection belongs to
func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return infrastructure.EnsureTraceID(ctx)
}

// queue hands a frame to the write pump without blocking. It reports
// false when the buffer is full.
func (c *Client) queue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// ReadPump reads frames until the connection fails. Messages of one
// connection are handled one at a time, in arrival order.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WarnContext(c.context(), "unexpected websocket close",
					slog.String("error", err.Error()))
			}
			return
		}

		c.hub.counters.RecordMessage("received", int64(len(data)), true)
		c.hub.otel.RecordBytes(c.context(), "in", int64(len(data)))
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	ctx, cancel := context.WithTimeout(c.context(), c.cfg.DispatchTimeout)
	defer cancel()

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("INVALID_MESSAGE", "message is not valid JSON", nil)
		return
	}
	c.hub.metrics.RecordMessage(ctx, "in", msg.Type)

	start := time.Now()
	defer func() {
		c.hub.otel.RecordDispatch(ctx, msg.Type, time.Since(start))
	}()

	switch msg.Type {
	case TypeHeartbeat:
		return

	case TypeSelectionUpdate:
		st := filter.DefaultState()
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &st); err != nil {
				c.sendError("INVALID_MESSAGE", "selection payload is malformed", nil)
				return
			}
		}
		// the service publishes the new snapshot to every connection of
		// the session, this one included
		if _, err := c.handler.UpdateState(ctx, c.sessionID, st); err != nil {
			c.handleError(ctx, msg.Type, err)
		}

	case TypeSelectionReset:
		if _, err := c.handler.ResetState(ctx, c.sessionID); err != nil {
			c.handleError(ctx, msg.Type, err)
		}

	case TypeRefresh:
		snap, err := c.handler.Snapshot(ctx, c.sessionID)
		if err != nil {
			c.handleError(ctx, msg.Type, err)
			return
		}
		c.hub.sendToClient(c, TypeDashboardUpdate, snap)

	default:
		c.sendError("UNKNOWN_TYPE", "unsupported message type "+msg.Type, nil)
	}
}

func (c *Client) handleError(ctx context.Context, msgType string, err error) {
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.sendError("VALIDATION_FAILED", "selection rejected", apierrors.FieldErrors(fieldErrs))
	case errors.Is(err, services.ErrSessionNotFound):
		c.sendError("SESSION_NOT_FOUND", "dashboard session expired, reload the page", nil)
	default:
		c.logger.ErrorContext(ctx, "websocket message failed",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		c.hub.metrics.RecordSystemError(ctx, "websocket")
		c.sendError("INTERNAL", "the dashboard could not be updated", nil)
	}
}

func (c *Client) sendError(code, message string, details interface{}) {
	c.hub.sendToClient(c, TypeError, ErrorPayload{Code: code, Message: message, Errors: details})
}

// WritePump writes queued frames and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.DebugContext(c.context(), "websocket write failed",
					slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "failed to send ping",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
