// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP and WebSocket transports and the domain
// packages, so handlers stay thin and every display is computed one way.
//
// # Available Services
//
//	- DashboardService: per-session selection, snapshots, charts and exports
//	- HealthService: health, readiness and version reporting
//
// # Common Service Pattern
//
//	func (s *DashboardService) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
//	    v, st, err := s.View(ctx, sessionID)
//	    if err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// # Error Handling
//
// Services return sentinel errors (ErrSessionNotFound, ErrUnknownFormat),
// validator.ValidationErrors for rejected selections, and
// internal/errors AppError values for render and export failures.
// Handlers turn these into RFC 7807 responses.
//
// # Testing
//
// Services are tested with real in-memory dependencies and a mocked
// Publisher:
//
//	pub := &MockPublisher{}
//	pub.On("SendToSession", id, MessageDashboardUpdate, mock.Anything).Return()
package services
