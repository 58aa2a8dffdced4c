package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"penguindash/internal/charts"
	"penguindash/internal/dataset"
	apierrors "penguindash/internal/errors"
	"penguindash/internal/exporter"
	"penguindash/internal/filter"
	"penguindash/internal/infrastructure"
	"penguindash/internal/session"
	"penguindash/internal/summary"
)

// MessageDashboardUpdate is the message type carrying a fresh Snapshot
const MessageDashboardUpdate = "dashboard:update"

// Table display modes
const (
	TableModeTable = "table"
	TableModeGrid  = "grid"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Publisher pushes messages to the live connections of one session
type Publisher interface {
	SendToSession(sessionID, messageType string, data interface{})
}

// TableRow is one row of the data table. Missing measurements are null.
type TableRow struct {
	Species    string   `json:"species"`
	Island     string   `json:"island"`
	BillLength *float64 `json:"bill_length_mm"`
	BillDepth  *float64 `json:"bill_depth_mm"`
	BodyMass   *float64 `json:"body_mass_g"`
	Sex        string   `json:"sex"`
}

// Table is the data table card
type Table struct {
	Mode    string     `json:"mode"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// Summary holds the scalar outputs derived from the filtered view
type Summary struct {
	Count       int             `json:"count"`
	ValueBoxes  [4]summary.Box  `json:"value_boxes"`
	Stats       []summary.Stats `json:"stats"`
	Correlation summary.Matrix  `json:"correlation"`
}

// Snapshot is everything one render of the dashboard displays. Every part
// is derived from the same filtered view.
type Snapshot struct {
	SessionID   string        `json:"session_id"`
	State       filter.State  `json:"state"`
	Summary     Summary       `json:"summary"`
	Table       Table         `json:"table"`
	Interactive charts.Figure `json:"interactive"`
	Secondary   charts.Figure `json:"secondary"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// DashboardService composes the filter pipeline, summaries and charts for
// a session
type DashboardService struct {
	provider  *dataset.Provider
	sessions  *session.Store
	memo      *filter.Memo
	publisher Publisher
	metrics   *infrastructure.DashboardMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(provider *dataset.Provider, sessions *session.Store, memo *filter.Memo, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DashboardService initialized",
		slog.Int("dataset_rows", provider.Get().Len()))

	return &DashboardService{
		provider: provider,
		sessions: sessions,
		memo:     memo,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.MeterName + "/services"),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// SetPublisher installs the sink for pushed snapshots. Without one, state
// changes are not pushed.
func (s *DashboardService) SetPublisher(p Publisher) {
	s.publisher = p
}

// Session returns the session for id, creating one when id is empty or
// unknown. The bool reports whether a new session was created.
func (s *DashboardService) Session(ctx context.Context, id string) (session.Session, bool) {
	return s.sessions.GetOrCreate(ctx, id)
}

// State returns the current selection of a session
func (s *DashboardService) State(ctx context.Context, sessionID string) (filter.State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return filter.State{}, err
	}
	return sess.State, nil
}

// UpdateState validates and stores a new selection, then returns and
// pushes the recomputed snapshot
func (s *DashboardService) UpdateState(ctx context.Context, sessionID string, st filter.State) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.update_state")
	defer span.End()

	if err := st.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := s.sessions.Update(sessionID, st); err != nil {
		return nil, s.mapSessionError(err)
	}

	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.publish(snap)

	s.logger.InfoContext(ctx, "selection updated",
		slog.String("session_id", sessionID),
		slog.Int("rows", snap.Summary.Count),
		slog.Bool("filter", st.Filter))
	return snap, nil
}

// ResetState returns a session to the default selection
func (s *DashboardService) ResetState(ctx context.Context, sessionID string) (*Snapshot, error) {
	if _, err := s.sessions.Reset(sessionID); err != nil {
		return nil, s.mapSessionError(err)
	}

	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.publish(snap)

	s.logger.InfoContext(ctx, "selection reset", slog.String("session_id", sessionID))
	return snap, nil
}

// View returns the filtered rows for a session's current selection
func (s *DashboardService) View(ctx context.Context, sessionID string) (filter.View, filter.State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return filter.View{}, filter.State{}, err
	}
	return s.memo.View(ctx, sess.State), sess.State, nil
}

// Snapshot renders every display for a session
func (s *DashboardService) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.snapshot")
	defer span.End()

	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("dashboard.rows", v.Len()))

	interactive, err := s.figure(ctx, "interactive", func() (charts.Figure, error) { return charts.Interactive(v, st) })
	if err != nil {
		return nil, err
	}
	secondary, err := s.figure(ctx, "secondary", func() (charts.Figure, error) { return charts.Secondary(v, st) })
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SessionID:   sessionID,
		State:       st,
		Summary:     buildSummary(v, st),
		Table:       buildTable(v, st),
		Interactive: interactive,
		Secondary:   secondary,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Summary returns count, value boxes, axis statistics and correlation
func (s *DashboardService) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sum := buildSummary(v, st)
	return &sum, nil
}

// Table returns the data table for a session
func (s *DashboardService) Table(ctx context.Context, sessionID string) (*Table, error) {
	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	t := buildTable(v, st)
	return &t, nil
}

// InteractiveFigure returns the main chart figure
func (s *DashboardService) InteractiveFigure(ctx context.Context, sessionID string) (*charts.Figure, error) {
	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fig, err := s.figure(ctx, "interactive", func() (charts.Figure, error) { return charts.Interactive(v, st) })
	if err != nil {
		return nil, err
	}
	return &fig, nil
}

// SecondaryFigure returns the heatmap or violin figure
func (s *DashboardService) SecondaryFigure(ctx context.Context, sessionID string) (*charts.Figure, error) {
	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fig, err := s.figure(ctx, "secondary", func() (charts.Figure, error) { return charts.Secondary(v, st) })
	if err != nil {
		return nil, err
	}
	return &fig, nil
}

// RenderStatic writes the main chart as PNG
func (s *DashboardService) RenderStatic(ctx context.Context, sessionID string, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.render_static")
	defer span.End()

	v, st, err := s.View(ctx, sessionID)
	if err != nil {
		return err
	}

	start := time.Now()
	err = charts.RenderStatic(w, v, st)
	s.metrics.RecordChartRender(ctx, "static", time.Since(start))
	if err != nil {
		span.RecordError(err)
		logDashboardError(ctx, "render_static", "static chart render failed",
			slog.String("session_id", sessionID),
			slog.String("plot", st.Plot),
			slog.String("error", err.Error()))
		return apierrors.NewRenderError("static", err)
	}
	return nil
}

// Export writes the filtered rows in the given format
func (s *DashboardService) Export(ctx context.Context, sessionID, format string, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.export",
		trace.WithAttributes(attribute.String("export.format", format)))
	defer span.End()

	v, _, err := s.View(ctx, sessionID)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		err = exporter.WriteCSV(w, v, exporter.WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		err = exporter.WriteXLSX(w, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		span.RecordError(err)
		logDashboardError(ctx, "export", "export failed",
			slog.String("session_id", sessionID),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return apierrors.NewExportError(format, err)
	}

	s.logger.InfoContext(ctx, "table exported",
		slog.String("session_id", sessionID),
		slog.String("format", format),
		slog.Int("rows", v.Len()))
	return nil
}

func (s *DashboardService) figure(ctx context.Context, kind string, build func() (charts.Figure, error)) (charts.Figure, error) {
	start := time.Now()
	fig, err := build()
	s.metrics.RecordChartRender(ctx, kind, time.Since(start))
	if err != nil {
		return charts.Figure{}, apierrors.NewRenderError(kind, err)
	}
	return fig, nil
}

func (s *DashboardService) lookup(sessionID string) (session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return session.Session{}, s.mapSessionError(err)
	}
	return sess, nil
}

func (s *DashboardService) mapSessionError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func (s *DashboardService) publish(snap *Snapshot) {
	if s.publisher == nil {
		return
	}
	s.publisher.SendToSession(snap.SessionID, MessageDashboardUpdate, snap)
}

func buildSummary(v filter.View, st filter.State) Summary {
	axes := []string{st.XAxis}
	if st.Plot == filter.PlotScatter && st.YAxis != st.XAxis {
		axes = append(axes, st.YAxis)
	}
	return Summary{
		Count:       v.Len(),
		ValueBoxes:  summary.ValueBoxes(v, st),
		Stats:       summary.DescribeAll(v, axes),
		Correlation: summary.Correlation(v, dataset.NumericColumns),
	}
}

func buildTable(v filter.View, st filter.State) Table {
	mode := TableModeGrid
	if st.ShowTable {
		mode = TableModeTable
	}

	rows := make([]TableRow, v.Len())
	for i := range rows {
		r := v.At(i)
		rows[i] = TableRow{
			Species:    r.Species,
			Island:     r.Island,
			BillLength: measurePtr(r.BillLength),
			BillDepth:  measurePtr(r.BillDepth),
			BodyMass:   measurePtr(r.BodyMass),
			Sex:        r.Sex,
		}
	}

	return Table{Mode: mode, Columns: dataset.Columns, Rows: rows}
}

func measurePtr(m dataset.Measure) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}
