/*
Package clients holds the gym's client roster and the membership views
built on top of it.

PURPOSE:
  The membership package is pure date logic. This package is where it gets
  called: listing clients filtered by Activos/Inactivos, the client detail
  countdown, renewals, and the dashboard's "expiring this week" counts.

KEY TYPES:
  - Client:     Stored roster entry (plan label, membership start, creation)
  - Membership: Computed view of a client's membership at a reference date
  - Renewal:    Audit row written when a membership anchor is reset
  - AlertRun:   One pass of the expiration scheduler

NOW IS A PARAMETER:
  Every Service method that classifies takes the reference time. Callers
  sample it once per request so a list is internally consistent.

SEE ALSO:
  - membership/: expiration and status rules
  - store/sqlite, store/memory: Repository implementations
*/
package clients

import (
	"time"

	"github.com/warp/membership-engine/membership"
)

// =============================================================================
// STORED RECORDS
// =============================================================================

// Client is a gym member.
type Client struct {
	ID    string
	Name  string
	Email string
	Phone string

	// PlanID references the catalog; empty for legacy records.
	PlanID string
	// PeriodLabel is the billing period as stored: either a canonical
	// membership.Period name or legacy free text ("Mensual", "15 días").
	PeriodLabel string

	MembershipStart *time.Time
	CreatedAt       time.Time
}

// Period translates the stored label once.
func (c Client) Period() membership.Period {
	return membership.PeriodFromLabel(c.PeriodLabel)
}

// Expiration computes the client's membership expiration.
func (c Client) Expiration() membership.Expiration {
	return membership.Expire(membership.AnchorOf(c.MembershipStart, c.CreatedAt), c.Period())
}

// Renewal records an anchor reset.
type Renewal struct {
	ID            string
	ClientID      string
	PreviousStart *time.Time
	NewStart      time.Time
	Period        membership.Period
	CreatedAt     time.Time
}

// AlertRun is one scheduler pass.
type AlertRun struct {
	ID           string
	RanAt        time.Time
	AsOf         time.Time
	Active       int
	ExpiringSoon int
	Expired      int
	Unknown      int
}

// =============================================================================
// COMPUTED VIEWS
// =============================================================================

// Membership is a client's membership evaluated at AsOf.
type Membership struct {
	AsOf          time.Time
	Period        membership.Period
	Expiration    membership.Expiration
	Status        membership.Status
	DaysRemaining *int // nil when the expiration is unknown
	DisplayDate   string
}

// View pairs a client with its evaluated membership.
type View struct {
	Client     Client
	Membership Membership
}

// Filter selects clients by derived status.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterActive       Filter = "active"   // Activos: active or expiring soon
	FilterInactive     Filter = "inactive" // Inactivos: expired or unknown
	FilterExpiringSoon Filter = "expiring_soon"
	FilterExpired      Filter = "expired"
)

// ParseFilter accepts the English names and the Spanish tab labels.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "all", "todos":
		return FilterAll, nil
	case "active", "activos":
		return FilterActive, nil
	case "inactive", "inactivos":
		return FilterInactive, nil
	case "expiring_soon", "por_vencer":
		return FilterExpiringSoon, nil
	case "expired", "vencidos":
		return FilterExpired, nil
	}
	return "", &InvalidInputError{Field: "status", Reason: "unknown filter " + s}
}

// Match reports whether a status passes the filter.
func (f Filter) Match(s membership.Status) bool {
	switch f {
	case FilterActive:
		return s.IsActive()
	case FilterInactive:
		return !s.IsActive()
	case FilterExpiringSoon:
		return s == membership.StatusExpiringSoon
	case FilterExpired:
		return s == membership.StatusExpired
	default:
		return true
	}
}
