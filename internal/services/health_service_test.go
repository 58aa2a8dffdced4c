package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"penguindash/internal/dataset"
	"penguindash/internal/session"
	"penguindash/internal/shared/testutil"
)

type fakeClients int

func (f fakeClients) ClientCount() int { return int(f) }

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	ds := dataset.New([]dataset.Record{{Species: "Adelie"}, {Species: "Gentoo"}})
	sessions := session.NewStore(time.Hour, nil, logger)
	sessions.Create(context.Background())

	hs := NewHealthService("1.2.3", "2024-01-01", dataset.NewProvider(ds), sessions, fakeClients(4), logger)
	ctx := context.Background()

	assert.Equal(t, "ok", hs.HealthCheck(ctx).Status)
	assert.Equal(t, "alive", hs.LivenessCheck(ctx).Status)

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "2 rows loaded", ready.Services["dataset"].(ServiceHealth).Message)

	stats := hs.SystemStats(ctx)
	assert.Equal(t, 2, stats.DatasetRows)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 4, stats.WebSocketClients)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2024-01-01", v["build_time"])
}

func TestHealthServiceNotReady(t *testing.T) {
	hs := NewHealthService("dev", "", nil, nil, nil, nil)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", ready.Status)

	stats := hs.SystemStats(context.Background())
	assert.Zero(t, stats.DatasetRows)
	assert.Zero(t, stats.WebSocketClients)
}
