package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordConnection()
	m.RecordConnection()
	m.RecordDisconnection(2 * time.Second)
	m.RecordDisconnection(4 * time.Second)
	m.RecordMessage("sent", 100, true)
	m.RecordMessage("received", 40, false)
	m.RecordDroppedMessage()
	m.RecordError("upgrade")

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.TotalConnections)
	assert.Equal(t, int64(0), s.ActiveConnections)
	assert.Equal(t, int64(2), s.MaxConcurrent)
	assert.Equal(t, int64(3000), s.AvgConnectionMS)
	assert.Equal(t, int64(1), s.MessagesSent)
	assert.Equal(t, int64(100), s.BytesSent)
	assert.Equal(t, int64(40), s.BytesReceived)
	assert.Equal(t, int64(1), s.MessageErrors)
	assert.Equal(t, int64(1), s.DroppedMessages)
	assert.Equal(t, map[string]int64{"upgrade": 1}, s.Errors)

	// snapshots are copies
	s.Errors["upgrade"] = 99
	assert.Equal(t, int64(1), m.Snapshot().Errors["upgrade"])
}

func TestOTelMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewOTelMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDisconnection(ctx, time.Second, "normal")
	m.RecordBytes(ctx, "out", 128)
	m.RecordDropped(ctx, TypeDashboardUpdate, "client_buffer_full")
	m.RecordDispatch(ctx, TypeSelectionUpdate, 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	for _, want := range []string{
		"websocket_connection_duration_seconds",
		"websocket_message_bytes_total",
		"websocket_dropped_messages_total",
		"websocket_dispatch_duration_seconds",
	} {
		assert.True(t, names[want], want)
	}
}

func TestOTelMetrics_Nil(t *testing.T) {
	var m *OTelMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordDisconnection(ctx, time.Second, "normal")
		m.RecordBytes(ctx, "in", 1)
		m.RecordDropped(ctx, "x", "y")
		m.RecordDispatch(ctx, "x", time.Millisecond)
	})
}
