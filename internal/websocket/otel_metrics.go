package websocket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds the WebSocket instruments not covered by
// infrastructure.DashboardMetrics. A nil *OTelMetrics records nothing.
type OTelMetrics struct {
	connectionDuration metric.Float64Histogram
	messageBytes       metric.Int64Counter
	droppedMessages    metric.Int64Counter
	dispatchLatency    metric.Float64Histogram
}

// NewOTelMetrics registers the instruments on meter
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	connectionDuration, err := meter.Float64Histogram(
		"websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	messageBytes, err := meter.Int64Counter(
		"websocket_message_bytes_total",
		metric.WithDescription("Total bytes of WebSocket messages"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	droppedMessages, err := meter.Int64Counter(
		"websocket_dropped_messages_total",
		metric.WithDescription("Total number of dropped WebSocket messages"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram(
		"websocket_dispatch_duration_seconds",
		metric.WithDescription("Time spent handling one inbound WebSocket message"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelMetrics{
		connectionDuration: connectionDuration,
		messageBytes:       messageBytes,
		droppedMessages:    droppedMessages,
		dispatchLatency:    dispatchLatency,
	}, nil
}

// RecordDisconnection records the lifetime of a closed connection
func (m *OTelMetrics) RecordDisconnection(ctx context.Context, duration time.Duration, reason string) {
	if m == nil {
		return
	}
	m.connectionDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordBytes records frame bytes in direction "in" or "out"
func (m *OTelMetrics) RecordBytes(ctx context.Context, direction string, n int64) {
	if m == nil {
		return
	}
	m.messageBytes.Add(ctx, n, metric.WithAttributes(attribute.String("direction", direction)))
}

// RecordDropped records a message that never reached its client
func (m *OTelMetrics) RecordDropped(ctx context.Context, messageType, reason string) {
	if m == nil {
		return
	}
	m.droppedMessages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message.type", messageType),
		attribute.String("reason", reason),
	))
}

// RecordDispatch records the handling time of an inbound message
func (m *OTelMetrics) RecordDispatch(ctx context.Context, messageType string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchLatency.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("message.type", messageType)))
}
