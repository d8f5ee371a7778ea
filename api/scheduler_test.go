package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/membership-engine/clients"
	"github.com/warp/membership-engine/store/sqlite"
)

func TestExpirationScheduler_RunOnce(t *testing.T) {
	// GIVEN: A SQLite-backed roster with one membership expiring in 3 days
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := clients.NewService(store, logger)
	svc.Clock = func() time.Time { return testNow }

	ctx := context.Background()
	start := time.Date(2025, time.May, 13, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveClient(ctx, clients.Client{
		ID: "beto", Name: "Beto", PeriodLabel: "Mensual", MembershipStart: &start, CreatedAt: start,
	}))

	sched := NewExpirationScheduler(svc, logger)
	sched.Now = func() time.Time { return testNow }

	// WHEN: One pass runs
	run, err := sched.RunOnce(ctx)
	require.NoError(t, err)

	// THEN: The pass is persisted with the counts
	assert.Equal(t, 1, run.ExpiringSoon)
	runs, err := store.ListAlertRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestExpirationScheduler_StartStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := clients.NewService(newTestServer(t).repo, logger)

	sched := NewExpirationScheduler(svc, logger)
	sched.CheckInterval = time.Hour

	sched.Start()
	sched.Start() // no-op
	sched.Stop()
	sched.Stop() // no-op

	// The immediate pass on start has completed by the time Stop returns.
	runs, err := svc.Repo.ListAlertRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestExpirationScheduler_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := clients.NewService(newTestServer(t).repo, logger)

	sched := NewExpirationScheduler(svc, logger)
	sched.Enabled = false
	sched.Start()
	sched.Stop()

	runs, err := svc.Repo.ListAlertRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
