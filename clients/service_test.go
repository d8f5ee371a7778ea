package clients_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/membership-engine/clients"
	"github.com/warp/membership-engine/membership"
	"github.com/warp/membership-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var today = membership.Date(2025, time.June, 10)

func newTestService(t *testing.T) (*clients.Service, *memory.Store) {
	t.Helper()
	repo := memory.New()
	svc := clients.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.Clock = func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func datePtr(s string) *time.Time {
	d := membership.MustDate(s)
	return &d
}

// seed stores one client per status as of June 10, 2025.
func seed(t *testing.T, repo *memory.Store) {
	t.Helper()
	ctx := context.Background()
	created := membership.Date(2024, time.January, 1)
	rows := []clients.Client{
		{ID: "ana", Name: "Ana", PeriodLabel: "Mensual", MembershipStart: datePtr("2025-06-01"), CreatedAt: created},     // Jul 1: active
		{ID: "beto", Name: "Beto", PeriodLabel: "Mensual", MembershipStart: datePtr("2025-05-13"), CreatedAt: created},   // Jun 13: expiring
		{ID: "carla", Name: "Carla", PeriodLabel: "15 días", MembershipStart: datePtr("2025-05-01"), CreatedAt: created}, // May 16: expired
		{ID: "dani", Name: "Dani", PeriodLabel: "Anual"},                                                                 // no anchor: unknown
		{ID: "eva", Name: "Eva", PeriodLabel: "Quincenal", CreatedAt: membership.Date(2025, time.June, 1)},               // Jun 16: 6 days, active
	}
	for _, c := range rows {
		require.NoError(t, repo.SaveClient(ctx, c))
	}
}

func ids(views []clients.View) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Client.ID
	}
	return out
}

// =============================================================================
// LIST FILTERS
// =============================================================================

func TestList_Filters(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	tests := []struct {
		filter clients.Filter
		want   []string
	}{
		{clients.FilterAll, []string{"ana", "beto", "carla", "dani", "eva"}},
		{clients.FilterActive, []string{"ana", "beto", "eva"}},
		{clients.FilterInactive, []string{"carla", "dani"}},
		{clients.FilterExpiringSoon, []string{"beto"}},
		{clients.FilterExpired, []string{"carla"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			views, err := svc.List(ctx, tt.filter, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(views))
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := clients.ParseFilter("activos")
	require.NoError(t, err)
	assert.Equal(t, clients.FilterActive, f)

	f, err = clients.ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, clients.FilterAll, f)

	_, err = clients.ParseFilter("bogus")
	assert.True(t, clients.IsClientError(err))
}

// =============================================================================
// DETAIL
// =============================================================================

func TestGet_Detail(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)

	v, err := svc.Get(context.Background(), "beto", today)
	require.NoError(t, err)

	m := v.Membership
	assert.Equal(t, membership.StatusExpiringSoon, m.Status)
	assert.Equal(t, membership.Date(2025, time.June, 13), m.Expiration.Date)
	require.NotNil(t, m.DaysRemaining)
	assert.Equal(t, 3, *m.DaysRemaining)
	assert.Contains(t, m.DisplayDate, "junio")
}

func TestGet_UnknownMembership(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)

	v, err := svc.Get(context.Background(), "dani", today)
	require.NoError(t, err)
	assert.Equal(t, membership.StatusUnknown, v.Membership.Status)
	assert.Nil(t, v.Membership.DaysRemaining)
	assert.Equal(t, membership.PlaceholderNotAvailable, v.Membership.DisplayDate)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nobody", today)
	assert.True(t, clients.IsNotFound(err))
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestExpiringWithin_Week(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)

	views, err := svc.ExpiringWithin(context.Background(), 7, today)
	require.NoError(t, err)
	// Beto in 3 days, Eva in 6; soonest first.
	assert.Equal(t, []string{"beto", "eva"}, ids(views))

	_, err = svc.ExpiringWithin(context.Background(), 0, today)
	assert.True(t, clients.IsClientError(err))
}

func TestSummary(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)

	sum, err := svc.Summary(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Active)
	assert.Equal(t, 1, sum.ExpiringSoon)
	assert.Equal(t, 1, sum.Expired)
	assert.Equal(t, 1, sum.Unknown)
}

func TestRecordAlertRun(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	run, err := svc.RecordAlertRun(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, run.ExpiringSoon)
	assert.Equal(t, today, run.AsOf)

	runs, err := repo.ListAlertRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

// =============================================================================
// WRITES
// =============================================================================

func TestCreate_PlanFixesPeriod(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.Create(context.Background(), clients.NewClient{
		Name:        "  Fer ",
		PlanID:      "plan-trimestral",
		PeriodLabel: "mensual",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Fer", c.Name)
	assert.Equal(t, membership.PeriodQuarterly, c.Period())
	// No membership start: anchored on creation (June 10) + 3 months.
	assert.Equal(t, membership.Date(2025, time.September, 10), c.Expiration().Date)
}

func TestCreate_AnchorsOnLocalSignUpDate(t *testing.T) {
	// GIVEN: The front desk clock reads Nov 1, 20:00 in UTC-6 (Nov 2 in UTC)
	// WHEN: A biweekly client is created without a membership start
	// THEN: The anchor is Nov 1 and the membership ends Nov 16
	svc, _ := newTestService(t)
	mexico := time.FixedZone("CST", -6*60*60)
	svc.Clock = func() time.Time { return time.Date(2025, time.November, 1, 20, 0, 0, 0, mexico) }

	c, err := svc.Create(context.Background(), clients.NewClient{Name: "Hugo", PeriodLabel: "Quincenal"})
	require.NoError(t, err)

	exp := c.Expiration()
	assert.Equal(t, membership.AnchorAccountCreated, exp.Anchor.Kind)
	assert.Equal(t, membership.Date(2025, time.November, 1), exp.Anchor.Date)
	assert.Equal(t, membership.Date(2025, time.November, 16), exp.Date)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, clients.NewClient{Name: " "})
	assert.True(t, clients.IsClientError(err))

	_, err = svc.Create(ctx, clients.NewClient{Name: "Gus", PlanID: "plan-semanal"})
	assert.True(t, clients.IsClientError(err))
}

func TestRenew_ResetsAnchor(t *testing.T) {
	// GIVEN: Carla expired on May 16
	// WHEN: She renews on June 10 for a quarter
	// THEN: Active again, expiring Sept 10, and the renewal is recorded
	svc, repo := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	_, err := svc.Renew(ctx, "carla", today, membership.PeriodQuarterly)
	require.NoError(t, err)

	v, err := svc.Get(ctx, "carla", today)
	require.NoError(t, err)
	assert.Equal(t, membership.StatusActive, v.Membership.Status)
	assert.Equal(t, membership.Date(2025, time.September, 10), v.Membership.Expiration.Date)

	renewals, err := svc.Renewals(ctx, "carla")
	require.NoError(t, err)
	require.Len(t, renewals, 1)
	assert.Equal(t, membership.PeriodQuarterly, renewals[0].Period)
	require.NotNil(t, renewals[0].PreviousStart)
	assert.Equal(t, membership.Date(2025, time.May, 1), *renewals[0].PreviousStart)
}

func TestRenew_KeepsPeriodWhenEmpty(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)

	c, err := svc.Renew(context.Background(), "carla", today, "")
	require.NoError(t, err)
	assert.Equal(t, membership.PeriodBiweekly, c.Period())
}

func TestRenew_Errors(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	_, err := svc.Renew(ctx, "nobody", today, membership.PeriodMonthly)
	assert.True(t, clients.IsNotFound(err))

	_, err = svc.Renew(ctx, "ana", time.Time{}, membership.PeriodMonthly)
	assert.True(t, clients.IsClientError(err))

	_, err = svc.Renew(ctx, "ana", today, "weekly")
	assert.True(t, clients.IsClientError(err))
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "ana"))
	assert.True(t, clients.IsNotFound(svc.Delete(ctx, "ana")))
}
