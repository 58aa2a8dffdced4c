package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"penguindash/internal/filter"
	"penguindash/internal/infrastructure"
)

// ErrNotFound is returned for an unknown or expired session id
var ErrNotFound = errors.New("session not found")

// Session is the selection state of one browser
type Session struct {
	ID      string       `json:"id"`
	State   filter.State `json:"state"`
	Created time.Time    `json:"created"`
	Updated time.Time    `json:"updated"`
}

// Store is an in-memory session store. States are copied in and out, so
// callers never share a State with another session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	now     func() time.Time
	metrics *infrastructure.DashboardMetrics
	logger  *slog.Logger
}

// NewStore creates a store whose sessions expire after ttl without use.
// A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "session_store"),
	}
}

// Create starts a session at the default state
func (s *Store) Create(ctx context.Context) Session {
	now := s.now()
	sess := &Session{
		ID:      uuid.New().String(),
		State:   filter.DefaultState(),
		Created: now,
		Updated: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.RecordSessionChange(ctx, 1)
	s.logger.DebugContext(ctx, "session created", slog.String("session_id", sess.ID))
	return copySession(sess)
}

// Get returns the session and marks it used
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.Updated = s.now()
	return copySession(sess), nil
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown. The bool reports whether a session was created.
func (s *Store) GetOrCreate(ctx context.Context, id string) (Session, bool) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess, false
		}
	}
	return s.Create(ctx), true
}

// Update replaces the state of a session
func (s *Store) Update(id string, st filter.State) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.State = st.Clone()
	sess.Updated = s.now()
	return copySession(sess), nil
}

// Reset puts a session back to the default state
func (s *Store) Reset(id string) (Session, error) {
	return s.Update(id, filter.DefaultState())
}

// Delete removes a session
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.metrics.RecordSessionChange(ctx, -1)
	}
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed
func (s *Store) Sweep(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Updated.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.RecordSessionChange(ctx, int64(-removed))
		s.logger.InfoContext(ctx, "expired idle sessions", slog.Int("removed", removed))
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(infrastructure.EnsureTraceID(ctx))
		}
	}
}

func copySession(sess *Session) Session {
	c := *sess
	c.State = sess.State.Clone()
	return c
}
