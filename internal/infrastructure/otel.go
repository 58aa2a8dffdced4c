package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"penguindash/internal/config"
)

const (
	ServiceName    = "penguin-dashboard"
	ServiceVersion = "1.0.0"
	MeterName      = "penguindash"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Registry       *promclient.Registry
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	return OTelConfigFrom(config.Default().Telemetry)
}

// OTelConfigFrom maps the telemetry section of the application config
func OTelConfigFrom(cfg config.TelemetryConfig) *OTelConfig {
	env := cfg.Environment
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  cfg.TraceExporter,
		MetricExporter: cfg.MetricExporter,
		EnableMetrics:  cfg.MetricExporter != "" && cfg.MetricExporter != "none",
		EnableTracing:  cfg.TraceExporter != "" && cfg.TraceExporter != "none",
		SampleRatio:    cfg.SampleRatio,
	}
}

// InitializeOTel initializes OpenTelemetry with comprehensive observability
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	// Create resource
	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
	}

	// Initialize tracing
	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	// Initialize metrics
	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	// Fall back to no-op instruments so callers never nil-check
	if providers.Tracer == nil {
		providers.Tracer = otel.Tracer(MeterName)
	}
	if providers.Meter == nil {
		providers.Meter = noop.NewMeterProvider().Meter(MeterName)
	}

	// Set up global propagators for trace context
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialization complete",
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "none":
		// No exporter - tracing disabled
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Create tracer provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	// Set global tracer provider
	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		// Each provider set owns its registry so repeated initialisation
		// does not collide on the default registerer.
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.Registry = registry
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

		// Create meter provider with Prometheus reader
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)

		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

		// Set global meter provider
		otel.SetMeterProvider(mp)

	case "none":
		// No exporter - metrics disabled
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", cfg.MetricExporter))

	return nil
}

// CreateDashboardMetrics creates the instruments recorded by the dashboard
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	filterRecomputes, err := meter.Int64Counter(
		"filter_recomputes_total",
		metric.WithDescription("Number of times the filtered view was computed from the dataset"),
	)
	if err != nil {
		return nil, err
	}

	filterDuration, err := meter.Float64Histogram(
		"filter_duration_seconds",
		metric.WithDescription("Time spent filtering the dataset"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	filterRows, err := meter.Int64Histogram(
		"filter_result_rows",
		metric.WithDescription("Rows remaining after filtering"),
	)
	if err != nil {
		return nil, err
	}

	memoHits, err := meter.Int64Counter(
		"filter_memo_hits_total",
		metric.WithDescription("Filtered views served from the memo"),
	)
	if err != nil {
		return nil, err
	}

	memoMisses, err := meter.Int64Counter(
		"filter_memo_misses_total",
		metric.WithDescription("Filtered views that had to be computed"),
	)
	if err != nil {
		return nil, err
	}

	chartRenderDuration, err := meter.Float64Histogram(
		"chart_render_duration_seconds",
		metric.WithDescription("Time spent rendering a chart"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeSessions, err := meter.Int64UpDownCounter(
		"dashboard_active_sessions",
		metric.WithDescription("Number of live dashboard sessions"),
	)
	if err != nil {
		return nil, err
	}

	wsConnections, err := meter.Int64UpDownCounter(
		"websocket_connections",
		metric.WithDescription("Number of connected WebSocket clients"),
	)
	if err != nil {
		return nil, err
	}

	wsMessages, err := meter.Int64Counter(
		"websocket_messages_total",
		metric.WithDescription("WebSocket messages by direction and type"),
	)
	if err != nil {
		return nil, err
	}

	systemErrors, err := meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,

		FilterRecomputes: filterRecomputes,
		FilterDuration:   filterDuration,
		FilterRows:       filterRows,
		MemoHits:         memoHits,
		MemoMisses:       memoMisses,

		ChartRenderDuration: chartRenderDuration,

		ActiveSessions: activeSessions,
		WSConnections:  wsConnections,
		WSMessages:     wsMessages,

		SystemErrors: systemErrors,
	}, nil
}

// DashboardMetrics holds all application-specific metrics.
// A nil *DashboardMetrics is valid and records nothing.
type DashboardMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Filter pipeline
	FilterRecomputes metric.Int64Counter
	FilterDuration   metric.Float64Histogram
	FilterRows       metric.Int64Histogram
	MemoHits         metric.Int64Counter
	MemoMisses       metric.Int64Counter

	ChartRenderDuration metric.Float64Histogram

	// Sessions and push channel
	ActiveSessions metric.Int64UpDownCounter
	WSConnections  metric.Int64UpDownCounter
	WSMessages     metric.Int64Counter

	SystemErrors metric.Int64Counter
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// SpanFromContext returns the current span from context
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanEvent adds an event to the current span with structured attributes
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}

	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}

// RecordFilter records one evaluation of the filter pipeline
func (m *DashboardMetrics) RecordFilter(ctx context.Context, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.FilterRecomputes.Add(ctx, 1)
	m.FilterDuration.Record(ctx, duration.Seconds())
	m.FilterRows.Record(ctx, int64(rows))
}

// RecordMemo records a memo lookup outcome
func (m *DashboardMetrics) RecordMemo(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.MemoHits.Add(ctx, 1)
		return
	}
	m.MemoMisses.Add(ctx, 1)
}

// RecordChartRender records the time taken to render a chart of the given kind
func (m *DashboardMetrics) RecordChartRender(ctx context.Context, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ChartRenderDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("chart.kind", kind)))
}

// RecordSessionChange records sessions being created (+) or expired (-)
func (m *DashboardMetrics) RecordSessionChange(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(ctx, delta)
}

// RecordConnectionChange records WebSocket clients joining (+) or leaving (-)
func (m *DashboardMetrics) RecordConnectionChange(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WSConnections.Add(ctx, delta)
}

// RecordMessage records a WebSocket message
func (m *DashboardMetrics) RecordMessage(ctx context.Context, direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("message.type", msgType),
	))
}

// RecordSystemError counts an unexpected failure in the named component
func (m *DashboardMetrics) RecordSystemError(ctx context.Context, component string) {
	if m == nil {
		return
	}
	m.SystemErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}
