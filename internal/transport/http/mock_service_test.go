package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"penguindash/internal/charts"
	"penguindash/internal/filter"
	"penguindash/internal/services"
	"penguindash/internal/session"
)

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) Session(ctx context.Context, id string) (session.Session, bool) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Session), args.Bool(1)
}

func (m *mockDashboardService) State(ctx context.Context, sessionID string) (filter.State, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(filter.State), args.Error(1)
}

func (m *mockDashboardService) UpdateState(ctx context.Context, sessionID string, st filter.State) (*services.Snapshot, error) {
	args := m.Called(ctx, sessionID, st)
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap, args.Error(1)
}

func (m *mockDashboardService) ResetState(ctx context.Context, sessionID string) (*services.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap, args.Error(1)
}

func (m *mockDashboardService) Snapshot(ctx context.Context, sessionID string) (*services.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	snap, _ := args.Get(0).(*services.Snapshot)
	return snap, args.Error(1)
}

func (m *mockDashboardService) Summary(ctx context.Context, sessionID string) (*services.Summary, error) {
	args := m.Called(ctx, sessionID)
	sum, _ := args.Get(0).(*services.Summary)
	return sum, args.Error(1)
}

func (m *mockDashboardService) Table(ctx context.Context, sessionID string) (*services.Table, error) {
	args := m.Called(ctx, sessionID)
	table, _ := args.Get(0).(*services.Table)
	return table, args.Error(1)
}

func (m *mockDashboardService) InteractiveFigure(ctx context.Context, sessionID string) (*charts.Figure, error) {
	args := m.Called(ctx, sessionID)
	fig, _ := args.Get(0).(*charts.Figure)
	return fig, args.Error(1)
}

func (m *mockDashboardService) SecondaryFigure(ctx context.Context, sessionID string) (*charts.Figure, error) {
	args := m.Called(ctx, sessionID)
	fig, _ := args.Get(0).(*charts.Figure)
	return fig, args.Error(1)
}

func (m *mockDashboardService) RenderStatic(ctx context.Context, sessionID string, w io.Writer) error {
	args := m.Called(ctx, sessionID, w)
	return args.Error(0)
}

func (m *mockDashboardService) Export(ctx context.Context, sessionID, format string, w io.Writer) error {
	args := m.Called(ctx, sessionID, format, w)
	return args.Error(0)
}

var anyCtx = mock.Anything

func sessionWithID(id string) session.Session {
	return session.Session{ID: id, State: filter.DefaultState()}
}
