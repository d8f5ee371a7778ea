package membership_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/membership-engine/membership"
)

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, membership.PlaceholderNotAvailable, membership.FormatDisplayDate(time.Time{}, false))
	assert.Equal(t, membership.PlaceholderInvalidDate, membership.FormatDisplayDate(time.Time{}, true))

	got := membership.FormatDisplayDate(membership.Date(2025, time.November, 16), true)
	assert.Contains(t, got, "16")
	assert.Contains(t, got, "noviembre")
	assert.Contains(t, got, "2025")
}

func TestFormatDaysRemaining(t *testing.T) {
	assert.Equal(t, "vence hoy", membership.FormatDaysRemaining(0))
	assert.Equal(t, "vence en 1 día", membership.FormatDaysRemaining(1))
	assert.Equal(t, "vence en 12 días", membership.FormatDaysRemaining(12))
	assert.Equal(t, "venció hace 1 día", membership.FormatDaysRemaining(-1))
	assert.Equal(t, "venció hace 3 días", membership.FormatDaysRemaining(-3))
}

func TestCatalog(t *testing.T) {
	c := membership.DefaultCatalog()
	require.Len(t, c.Plans(), len(membership.Periods()))

	for _, p := range membership.Periods() {
		assert.Len(t, c.ForPeriod(p), 1, "period %s", p)
	}

	plan, ok := c.Find("plan-trimestral")
	require.True(t, ok)
	assert.Equal(t, membership.PeriodQuarterly, plan.Period)

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestNewCatalog_Rejects(t *testing.T) {
	_, err := membership.NewCatalog(
		membership.Plan{ID: "a", Period: membership.PeriodMonthly},
		membership.Plan{ID: "a", Period: membership.PeriodAnnual},
	)
	assert.Error(t, err)

	_, err = membership.NewCatalog(membership.Plan{ID: "b", Period: "weekly"})
	assert.ErrorIs(t, err, membership.ErrUnknownPeriod)

	_, err = membership.NewCatalog(membership.Plan{ID: "c", Period: membership.PeriodDaily, Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}
