package membership

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// PERIOD - Billing cadence of a membership
// =============================================================================

// Period is the closed set of billing cadences a plan can have.
type Period string

const (
	PeriodDaily      Period = "daily"
	PeriodBiweekly   Period = "biweekly"   // 15 days, not two weeks
	PeriodMonthly    Period = "monthly"
	PeriodQuarterly  Period = "quarterly"
	PeriodSemiannual Period = "semiannual"
	PeriodAnnual     Period = "annual"
)

// DefaultPeriod applies when a label names no known cadence.
const DefaultPeriod = PeriodMonthly

// Periods lists every period, shortest first.
func Periods() []Period {
	return []Period{PeriodDaily, PeriodBiweekly, PeriodMonthly, PeriodQuarterly, PeriodSemiannual, PeriodAnnual}
}

// Valid reports whether p is one of the enumerated periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodBiweekly, PeriodMonthly, PeriodQuarterly, PeriodSemiannual, PeriodAnnual:
		return true
	}
	return false
}

// Label is the Spanish name shown to staff.
func (p Period) Label() string {
	switch p {
	case PeriodDaily:
		return "Diario"
	case PeriodBiweekly:
		return "Quincenal"
	case PeriodQuarterly:
		return "Trimestral"
	case PeriodSemiannual:
		return "Semestral"
	case PeriodAnnual:
		return "Anual"
	default:
		return "Mensual"
	}
}

// AddTo returns the expiration for a membership anchored at the given date.
// Unknown periods behave as DefaultPeriod.
func (p Period) AddTo(anchor time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return AddDays(anchor, 1)
	case PeriodBiweekly:
		return AddDays(anchor, 15)
	case PeriodQuarterly:
		return AddMonths(anchor, 3)
	case PeriodSemiannual:
		return AddMonths(anchor, 6)
	case PeriodAnnual:
		return AddYears(anchor, 1)
	default:
		return AddMonths(anchor, 1)
	}
}

// ParsePeriod parses a canonical period name ("monthly", "annual", ...).
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// =============================================================================
// LEGACY LABELS
// =============================================================================
// Stored client records carry free text such as "Plan Mensual" or "15 días".
// PeriodFromLabel is the one place that prose is read.

type labelRule struct {
	period   Period
	keywords []string // already folded
}

// Order matters: earlier rules win on overlapping text.
var labelRules = []labelRule{
	{PeriodDaily, []string{"1 dia", "diario"}},
	{PeriodBiweekly, []string{"15 dias", "quincenal"}},
	{PeriodMonthly, []string{"mensual", "1 mes"}},
	{PeriodQuarterly, []string{"3 meses", "trimestral"}},
	{PeriodSemiannual, []string{"6 meses", "semestral"}},
	{PeriodAnnual, []string{"año", "anual", "12 meses"}},
}

// PeriodFromLabel maps a free-text label to a period. Matching is substring,
// case- and accent-insensitive, except that ñ is kept distinct from n so "año"
// does not match "verano". A keyword that starts with a digit must not be
// preceded by another digit: "21 días" is not "1 día".
//
// Canonical names ("monthly", "annual", ...) are accepted as-is before the
// keyword rules run. Legacy data never holds them; records written through
// ParsePeriod do. Anything else, empty included, is DefaultPeriod.
func PeriodFromLabel(label string) Period {
	folded := foldLabel(label)
	if folded == "" {
		return DefaultPeriod
	}
	if p := Period(folded); p.Valid() {
		return p
	}
	for _, rule := range labelRules {
		for _, kw := range rule.keywords {
			if containsKeyword(folded, kw) {
				return rule.period
			}
		}
	}
	return DefaultPeriod
}

// containsKeyword reports whether kw occurs in s, rejecting hits where a
// leading digit in kw continues a longer number in s.
func containsKeyword(s, kw string) bool {
	numeric := kw != "" && kw[0] >= '0' && kw[0] <= '9'
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if !numeric || i == 0 || s[i-1] < '0' || s[i-1] > '9' {
			return true
		}
		from = i + 1
	}
	return false
}

// tilde is the combining mark that turns n into ñ; it is kept when folding.
const tilde = '\u0303'

var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r != tilde && unicode.Is(unicode.Mn, r)
}))

// foldLabel lowercases, strips combining marks other than the tilde and
// collapses whitespace.
func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
