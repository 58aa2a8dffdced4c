package websocket

import (
	"sync"
	"time"
)

// Metrics keeps in-process counters for one hub. They back the stats
// endpoint; the OpenTelemetry instruments carry the same events to
// Prometheus.
type Metrics struct {
	mu sync.RWMutex

	totalConnections  int64
	activeConnections int64
	maxConcurrent     int64
	avgConnectionTime time.Duration

	messagesSent     int64
	messagesReceived int64
	bytesSent        int64
	bytesReceived    int64
	messageErrors    int64
	droppedMessages  int64

	errorsByType map[string]int64

	started         time.Time
	connectionTimes []time.Duration
}

// Snapshot is a point-in-time copy of Metrics
type Snapshot struct {
	TotalConnections  int64            `json:"total_connections"`
	ActiveConnections int64            `json:"active_connections"`
	MaxConcurrent     int64            `json:"max_concurrent"`
	AvgConnectionMS   int64            `json:"avg_connection_ms"`
	MessagesSent      int64            `json:"messages_sent"`
	MessagesReceived  int64            `json:"messages_received"`
	BytesSent         int64            `json:"bytes_sent"`
	BytesReceived     int64            `json:"bytes_received"`
	MessageErrors     int64            `json:"message_errors"`
	DroppedMessages   int64            `json:"dropped_messages"`
	Errors            map[string]int64 `json:"errors"`
	UptimeSeconds     float64          `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		errorsByType:    make(map[string]int64),
		started:         time.Now(),
		connectionTimes: make([]time.Duration, 0, 100),
	}
}

// RecordConnection records a new connection
func (m *Metrics) RecordConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalConnections++
	m.activeConnections++
	if m.activeConnections > m.maxConcurrent {
		m.maxConcurrent = m.activeConnections
	}
}

// RecordDisconnection records a disconnection and folds its duration into
// the rolling average of the last 100 connections
func (m *Metrics) RecordDisconnection(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeConnections--

	m.connectionTimes = append(m.connectionTimes, duration)
	if len(m.connectionTimes) > 100 {
		m.connectionTimes = m.connectionTimes[1:]
	}

	var total time.Duration
	for _, d := range m.connectionTimes {
		total += d
	}
	m.avgConnectionTime = total / time.Duration(len(m.connectionTimes))
}

// RecordMessage records one frame. direction is "sent" or "received".
func (m *Metrics) RecordMessage(direction string, size int64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch direction {
	case "sent":
		m.messagesSent++
		m.bytesSent += size
	case "received":
		m.messagesReceived++
		m.bytesReceived += size
	}
	if !success {
		m.messageErrors++
	}
}

// RecordError records an error by type
func (m *Metrics) RecordError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorsByType[errorType]++
}

// RecordDroppedMessage records a dropped message
func (m *Metrics) RecordDroppedMessage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.droppedMessages++
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errs := make(map[string]int64, len(m.errorsByType))
	for k, v := range m.errorsByType {
		errs[k] = v
	}

	return Snapshot{
		TotalConnections:  m.totalConnections,
		ActiveConnections: m.activeConnections,
		MaxConcurrent:     m.maxConcurrent,
		AvgConnectionMS:   m.avgConnectionTime.Milliseconds(),
		MessagesSent:      m.messagesSent,
		MessagesReceived:  m.messagesReceived,
		BytesSent:         m.bytesSent,
		BytesReceived:     m.bytesReceived,
		MessageErrors:     m.messageErrors,
		DroppedMessages:   m.droppedMessages,
		Errors:            errs,
		UptimeSeconds:     time.Since(m.started).Seconds(),
	}
}
