package membership

import "time"

// =============================================================================
// STATUS CLASSIFICATION
// =============================================================================

// Status is derived, never stored: it depends on the date it is evaluated at.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown" // no computable expiration; not expired
)

// ExpiringSoonDays is the upper bound, inclusive, of the warning window.
const ExpiringSoonDays = 5

// Label is the Spanish badge text.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Activo"
	case StatusExpiringSoon:
		return "Por vencer"
	case StatusExpired:
		return "Vencido"
	default:
		return "Sin información"
	}
}

// IsActive reports whether the membership still grants access. Expiring-soon
// memberships are active.
func (s Status) IsActive() bool {
	return s == StatusActive || s == StatusExpiringSoon
}

// DaysRemaining counts whole calendar days from now's date to expiration.
// Zero means it expires today.
func DaysRemaining(expiration, now time.Time) int {
	return DaysBetween(now, expiration)
}

// IsExpiringSoon is true when 1 to ExpiringSoonDays days remain.
func IsExpiringSoon(expiration time.Time, ok bool, now time.Time) bool {
	if !ok {
		return false
	}
	d := DaysRemaining(expiration, now)
	return d > 0 && d <= ExpiringSoonDays
}

// HasExpired is true once the expiration date is today or earlier. A missing
// expiration is never expired.
func HasExpired(expiration time.Time, ok bool, now time.Time) bool {
	if !ok {
		return false
	}
	return DaysRemaining(expiration, now) <= 0
}

// Classify folds the two predicates into a Status.
func Classify(expiration time.Time, ok bool, now time.Time) Status {
	switch {
	case !ok:
		return StatusUnknown
	case HasExpired(expiration, true, now):
		return StatusExpired
	case IsExpiringSoon(expiration, true, now):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// =============================================================================
// EVALUATOR - One "now" per render pass
// =============================================================================

// Evaluator pins the reference date so every membership in a list is judged
// against the same day.
type Evaluator struct {
	today time.Time
}

// NewEvaluator samples now once.
func NewEvaluator(now time.Time) Evaluator {
	return Evaluator{today: DateOf(now)}
}

// Today is the pinned reference date.
func (ev Evaluator) Today() time.Time { return ev.today }

func (ev Evaluator) Status(e Expiration) Status {
	return Classify(e.Date, e.OK(), ev.today)
}

// DaysRemaining returns ok=false for expirations that could not be computed.
func (ev Evaluator) DaysRemaining(e Expiration) (int, bool) {
	if !e.OK() {
		return 0, false
	}
	return DaysRemaining(e.Date, ev.today), true
}

// ExpiresWithin reports whether e falls in (today, today+days].
func (ev Evaluator) ExpiresWithin(e Expiration, days int) bool {
	d, ok := ev.DaysRemaining(e)
	return ok && d > 0 && d <= days
}

// Summary counts memberships per status.
type Summary struct {
	AsOf         time.Time
	Active       int
	ExpiringSoon int
	Expired      int
	Unknown      int
}

// Total is the number of memberships counted.
func (s Summary) Total() int {
	return s.Active + s.ExpiringSoon + s.Expired + s.Unknown
}

// Add counts one status.
func (s *Summary) Add(st Status) {
	switch st {
	case StatusActive:
		s.Active++
	case StatusExpiringSoon:
		s.ExpiringSoon++
	case StatusExpired:
		s.Expired++
	default:
		s.Unknown++
	}
}

func (ev Evaluator) Summarize(exps []Expiration) Summary {
	sum := Summary{AsOf: ev.today}
	for _, e := range exps {
		sum.Add(ev.Status(e))
	}
	return sum
}
