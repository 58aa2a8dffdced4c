package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NewTraceID returns a fresh trace id. Request ids double as trace ids
// until a span replaces them.
func NewTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns ctx when it already carries a trace id and a child
// context with a fresh one otherwise. Work that does not start from an HTTP
// request (session sweeps, WebSocket frames) begins here.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, NewTraceID())
}

// WithComponent tags logger with the emitting component. A nil logger
// falls back to the global one.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}
