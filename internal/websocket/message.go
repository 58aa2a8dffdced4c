package websocket

import (
	"encoding/json"
	"time"

	"penguindash/internal/services"
)

// Message types
const (
	TypeConnection      = "connection"
	TypeHeartbeat       = "heartbeat"
	TypeSelectionUpdate = "selection:update"
	TypeSelectionReset  = "selection:reset"
	TypeRefresh         = "dashboard:refresh"
	TypeDashboardUpdate = services.MessageDashboardUpdate
	TypeError           = "error"
)

// Message is the envelope of every frame in both directions
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	TraceID   string          `json:"trace_id,omitempty"`
}

// ErrorPayload is the data of a TypeError message
type ErrorPayload struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// encode builds an outbound frame
func encode(messageType string, data interface{}, traceID string) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
	})
}
