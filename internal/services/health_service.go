package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"penguindash/internal/dataset"
	"penguindash/internal/session"
)

// ClientCounter reports live WebSocket connections
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	provider  *dataset.Provider
	sessions  *session.Store
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	DatasetRows      int     `json:"dataset_rows"`
	ActiveSessions   int     `json:"active_sessions"`
	WebSocketClients int     `json:"websocket_clients"`
	GoVersion        string  `json:"go_version"`
	OS               string  `json:"os"`
	Arch             string  `json:"arch"`
}

// NewHealthService creates a new health service with injected dependencies.
// clients may be nil when no WebSocket hub runs.
func NewHealthService(version, buildTime string, provider *dataset.Provider, sessions *session.Store, clients ClientCounter, logger *slog.Logger) *HealthService {
	// Ensure we have a logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		provider:  provider,
		sessions:  sessions,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("version", hs.version),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()
	status.Services["sessions"] = hs.checkSessionHealth()
	status.Services["websocket"] = hs.checkWebSocketHealth()

	// Determine overall readiness
	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}

	return result
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
	if hs.provider != nil && hs.provider.Get() != nil {
		stats.DatasetRows = hs.provider.Get().Len()
	}
	if hs.sessions != nil {
		stats.ActiveSessions = hs.sessions.Len()
	}
	if hs.clients != nil {
		stats.WebSocketClients = hs.clients.ClientCount()
	}
	return stats
}

// checkDatasetHealth reports whether the table was loaded
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.provider == nil || hs.provider.Get() == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "dataset not loaded",
		}
	}

	ds := hs.provider.Get()
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d rows loaded", ds.Len()),
	}
}

func (hs *HealthService) checkSessionHealth() ServiceHealth {
	if hs.sessions == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "session store not initialized",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d active sessions", hs.sessions.Len()),
	}
}

// checkWebSocketHealth checks WebSocket service health
func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	// WebSocket hub is always considered healthy if it's running
	return ServiceHealth{
		Status:  "ready",
		Message: "WebSocket service is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
		"stats":     hs.SystemStats(ctx),
	}
}
