package services

import (
	"context"
	"log/slog"

	"penguindash/internal/infrastructure"
)

// logDashboardError logs a failed dashboard operation through the global
// logger, which adds the trace id of ctx
func logDashboardError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	logger := infrastructure.WithComponent(nil, "dashboard_service")

	allAttrs := append([]slog.Attr{slog.String("action", action)}, attrs...)
	logger.LogAttrs(ctx, slog.LevelError, message, allAttrs...)
}
