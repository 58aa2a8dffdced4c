package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/filter"
	"penguindash/internal/shared/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *fakeClock) {
	logger, _ := testutil.NewTestLogger(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, nil, logger)
	s.now = clock.Now
	return s, clock
}

func TestCreateStartsAtDefaults(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	sess := s.Create(context.Background())
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, filter.DefaultState(), sess.State)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	a := s.Create(ctx)
	b := s.Create(ctx)

	st := filter.DefaultState()
	st.Species = []string{"Gentoo"}
	_, err := s.Update(a.ID, st)
	require.NoError(t, err)

	gotA, err := s.Get(a.ID)
	require.NoError(t, err)
	gotB, err := s.Get(b.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Gentoo"}, gotA.State.Species)
	assert.Equal(t, filter.DefaultState().Species, gotB.State.Species)

	// mutating a returned state does not leak into the store
	gotA.State.Species[0] = "Adelie"
	again, _ := s.Get(a.ID)
	assert.Equal(t, []string{"Gentoo"}, again.State.Species)
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update("nope", filter.DefaultState())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Reset("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrCreate(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	first, created := s.GetOrCreate(ctx, "")
	assert.True(t, created)

	same, created := s.GetOrCreate(ctx, first.ID)
	assert.False(t, created)
	assert.Equal(t, first.ID, same.ID)

	_, created = s.GetOrCreate(ctx, "stale")
	assert.True(t, created)
	assert.Equal(t, 2, s.Len())
}

func TestReset(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	sess := s.Create(context.Background())

	st := filter.DefaultState()
	st.Filter = false
	_, err := s.Update(sess.ID, st)
	require.NoError(t, err)

	reset, err := s.Reset(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, filter.DefaultState(), reset.State)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	s, clock := newTestStore(t, time.Hour)
	ctx := context.Background()

	idle := s.Create(ctx)
	clock.Advance(40 * time.Minute)
	active := s.Create(ctx)
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, s.Sweep(ctx))
	_, err := s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestSweepDisabled(t *testing.T) {
	s, clock := newTestStore(t, 0)
	ctx := context.Background()

	s.Create(ctx)
	clock.Advance(1000 * time.Hour)
	assert.Zero(t, s.Sweep(ctx))
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess := s.Create(ctx)
	s.Delete(ctx, sess.ID)
	s.Delete(ctx, sess.ID)
	assert.Zero(t, s.Len())
}
