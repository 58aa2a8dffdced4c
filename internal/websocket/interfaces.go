package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"penguindash/internal/filter"
	"penguindash/internal/services"
)

// Connection defines the interface for WebSocket connections
// This allows for proper mocking in tests
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	ReadMessage() (messageType int, p []byte, err error)

	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// SelectionHandler applies selection messages to a session. It is
// implemented by services.DashboardService.
type SelectionHandler interface {
	UpdateState(ctx context.Context, sessionID string, st filter.State) (*services.Snapshot, error)
	ResetState(ctx context.Context, sessionID string) (*services.Snapshot, error)
	Snapshot(ctx context.Context, sessionID string) (*services.Snapshot, error)
}

// HubInterface defines the interface for WebSocket hub
type HubInterface interface {
	services.Publisher
	services.ClientCounter

	Register(client *Client)
	Unregister(client *Client)

	// Broadcast sends a message to every connected client
	Broadcast(messageType string, data interface{})

	Start()
	Stop()
}

var (
	_ HubInterface     = (*Hub)(nil)
	_ SelectionHandler = (*services.DashboardService)(nil)
)

// gorillaConn adapts *websocket.Conn to Connection
type gorillaConn struct {
	*websocket.Conn
}

func (c gorillaConn) RemoteAddr() string {
	return c.Conn.RemoteAddr().String()
}
