package websocket

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockConn is an in-memory Connection. Frames pushed with deliver are read
// by the client; text frames the client writes arrive on out.
type mockConn struct {
	in   chan []byte
	out  chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newMockConn() *mockConn {
	return &mockConn{
		in:   make(chan []byte, 16),
		out:  make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("write on closed connection")
	}
	if messageType != websocket.TextMessage {
		return nil
	}
	m.out <- append([]byte(nil), data...)
	return nil
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	select {
	case data, ok := <-m.in:
		if !ok {
			return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
		}
		return websocket.TextMessage, data, nil
	case <-m.done:
		return 0, nil, io.EOF
	}
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(time.Time) error { return nil }
func (m *mockConn) SetReadLimit(int64)               {}
func (m *mockConn) SetPongHandler(func(string) error) {}
func (m *mockConn) RemoteAddr() string               { return "127.0.0.1:40000" }

// deliver sends a client frame
func (m *mockConn) deliver(t *testing.T, msgType string, data interface{}) {
	t.Helper()
	msg := map[string]interface{}{"type": msgType}
	if data != nil {
		msg["data"] = data
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	m.in <- raw
}

// next waits for the next written frame of msgType, skipping others
func (m *mockConn) next(t *testing.T, msgType string) Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw := <-m.out:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("invalid frame %q: %v", raw, err)
			}
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("no %q frame within 2s", msgType)
			return Message{}
		}
	}
}

// quiet asserts that nothing is written for a short while
func (m *mockConn) quiet(t *testing.T) {
	t.Helper()
	select {
	case raw := <-m.out:
		t.Fatalf("unexpected frame %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}
