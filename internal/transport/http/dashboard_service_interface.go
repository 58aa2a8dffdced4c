package http

import (
	"context"
	"io"

	"penguindash/internal/charts"
	"penguindash/internal/filter"
	"penguindash/internal/services"
	"penguindash/internal/session"
)

// DashboardServiceInterface is the part of services.DashboardService the
// HTTP layer depends on
type DashboardServiceInterface interface {
	Session(ctx context.Context, id string) (session.Session, bool)
	State(ctx context.Context, sessionID string) (filter.State, error)
	UpdateState(ctx context.Context, sessionID string, st filter.State) (*services.Snapshot, error)
	ResetState(ctx context.Context, sessionID string) (*services.Snapshot, error)
	Snapshot(ctx context.Context, sessionID string) (*services.Snapshot, error)
	Summary(ctx context.Context, sessionID string) (*services.Summary, error)
	Table(ctx context.Context, sessionID string) (*services.Table, error)
	InteractiveFigure(ctx context.Context, sessionID string) (*charts.Figure, error)
	SecondaryFigure(ctx context.Context, sessionID string) (*charts.Figure, error)
	RenderStatic(ctx context.Context, sessionID string, w io.Writer) error
	Export(ctx context.Context, sessionID, format string, w io.Writer) error
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
