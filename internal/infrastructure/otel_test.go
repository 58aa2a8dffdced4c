package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"penguindash/internal/config"
)

func testTracingConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    "test-service",
		ServiceVersion: "v1.0.0",
		Environment:    "test",
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Test with default configuration
	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Default config exports metrics but not traces
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)

	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = providers.Shutdown(ctx)
	assert.NoError(t, err)
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    0.5,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.EnableTracing)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, 0.5, cfg.SampleRatio)
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providers, err := InitializeOTel(testTracingConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	ctx = WithTraceID(ctx, traceID)
	assert.Equal(t, traceID, GetTraceID(ctx))
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

// TestDashboardMetrics tests metric creation
func TestDashboardMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)

	assert.NotNil(t, metrics.FilterRecomputes)
	assert.NotNil(t, metrics.FilterDuration)
	assert.NotNil(t, metrics.MemoHits)
	assert.NotNil(t, metrics.MemoMisses)

	assert.NotNil(t, metrics.ActiveSessions)
	assert.NotNil(t, metrics.WSConnections)
	assert.NotNil(t, metrics.SystemErrors)
}

func TestDashboardMetrics_NilMeter(t *testing.T) {
	metrics, err := CreateDashboardMetrics(nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordFilter(ctx, 10, time.Millisecond)
		metrics.RecordMemo(ctx, true)
	})
}

func TestDashboardMetrics_NilReceiver(t *testing.T) {
	var metrics *DashboardMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		metrics.RecordFilter(ctx, 1, time.Second)
		metrics.RecordMemo(ctx, false)
		metrics.RecordChartRender(ctx, "scatter", time.Second)
		metrics.RecordSessionChange(ctx, 1)
		metrics.RecordConnectionChange(ctx, -1)
		metrics.RecordMessage(ctx, "in", "selection:update")
		metrics.RecordSystemError(ctx, "charts")
	})
}

// TestPrometheusEndpoint tests the Prometheus metrics endpoint
func TestPrometheusEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordFilter(ctx, 42, 3*time.Millisecond)
	metrics.RecordMemo(ctx, true)
	metrics.RecordMemo(ctx, false)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "filter_recomputes_total")
	assert.Contains(t, string(body), "filter_memo_hits_total")
}

// TestOTelConfiguration tests different configuration options
func TestOTelConfiguration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		config  *OTelConfig
		wantErr bool
	}{
		{
			name:   "tracing_and_metrics",
			config: testTracingConfig(),
		},
		{
			name: "disabled_tracing",
			config: &OTelConfig{
				ServiceName:    "test-service",
				ServiceVersion: "v1.0.0",
				Environment:    "test",
				TraceExporter:  "none",
				MetricExporter: "prometheus",
				EnableMetrics:  true,
				EnableTracing:  false,
			},
		},
		{
			name: "disabled_metrics",
			config: &OTelConfig{
				ServiceName:    "test-service",
				ServiceVersion: "v1.0.0",
				Environment:    "test",
				TraceExporter:  "stdout",
				MetricExporter: "none",
				EnableMetrics:  false,
				EnableTracing:  true,
				SampleRatio:    1.0,
			},
		},
		{
			name: "unsupported_trace_exporter",
			config: &OTelConfig{
				ServiceName:   "test-service",
				TraceExporter: "jaeger",
				EnableTracing: true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, providers)

			if tt.config.EnableTracing {
				assert.NotNil(t, providers.TracerProvider)
			}
			if tt.config.EnableMetrics {
				assert.NotNil(t, providers.MeterProvider)
			}
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

// TestTracePropagation tests trace propagation across contexts
func TestTracePropagation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providers, err := InitializeOTel(testTracingConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	tracer := otel.Tracer("propagation-test")

	ctx, parentSpan := tracer.Start(context.Background(), "parent-operation")
	defer parentSpan.End()

	_, childSpan := tracer.Start(ctx, "child-operation")
	defer childSpan.End()

	assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
	assert.NotEqual(t, parentSpan.SpanContext().SpanID(), childSpan.SpanContext().SpanID())
}

// BenchmarkMetricOperations benchmarks metric operations
func BenchmarkMetricOperations(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(b, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(b, err)

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	b.Run("record_filter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			metrics.RecordFilter(ctx, i%344, time.Microsecond)
		}
	})

	b.Run("record_memo", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			metrics.RecordMemo(ctx, i%2 == 0)
		}
	})
}
