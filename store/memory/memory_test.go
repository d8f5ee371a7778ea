package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/membership-engine/clients"
)

func TestStore_ClientsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	c := clients.Client{ID: "ana", Name: "Ana", MembershipStart: &start}
	require.NoError(t, s.SaveClient(ctx, c))

	// Mutating the caller's pointer must not leak into the store.
	start = start.AddDate(0, 0, 10)

	got, err := s.GetClient(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, got.MembershipStart)
	assert.Equal(t, 1, got.MembershipStart.Day())
}

func TestStore_ListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, c := range []clients.Client{{ID: "2", Name: "Beto"}, {ID: "1", Name: "Ana"}} {
		require.NoError(t, s.SaveClient(ctx, c))
	}
	beto := clients.Client{ID: "2", Name: "Beto"}
	require.NoError(t, s.SaveRenewal(ctx, beto, clients.Renewal{ID: "r1", ClientID: "2"}))
	require.NoError(t, s.SaveRenewal(ctx, beto, clients.Renewal{ID: "r2", ClientID: "2"}))

	list, err := s.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)

	renewals, err := s.ListRenewals(ctx, "2")
	require.NoError(t, err)
	require.Len(t, renewals, 2)
	assert.Equal(t, "r2", renewals[0].ID)

	require.NoError(t, s.DeleteClient(ctx, "2"))
	assert.ErrorIs(t, s.DeleteClient(ctx, "2"), clients.ErrClientNotFound)

	_, err = s.GetClient(ctx, "2")
	assert.True(t, clients.IsNotFound(err))

	renewals, err = s.ListRenewals(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, renewals)
}

func TestStore_AlertRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveAlertRun(ctx, clients.AlertRun{ID: id}))
	}

	runs, err := s.ListAlertRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestStore_SaveRenewalUnknownClient(t *testing.T) {
	s := New()
	err := s.SaveRenewal(context.Background(), clients.Client{ID: "ghost"}, clients.Renewal{ID: "r1", ClientID: "ghost"})
	assert.ErrorIs(t, err, clients.ErrClientNotFound)

	renewals, err := s.ListRenewals(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, renewals)
}
