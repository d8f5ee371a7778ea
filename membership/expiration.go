package membership

import "time"

// =============================================================================
// ANCHOR - Where a membership period is measured from
// =============================================================================

// AnchorKind says which input the anchor came from, or why there is none.
type AnchorKind string

const (
	AnchorMembershipStart AnchorKind = "membership_start"
	AnchorAccountCreated  AnchorKind = "account_created"
	AnchorMissing         AnchorKind = "missing"    // neither date given
	AnchorUnparsable      AnchorKind = "unparsable" // something given, nothing usable
)

// Anchor is the reference date of a membership. Date is only meaningful when
// OK() is true.
type Anchor struct {
	Kind AnchorKind
	Date time.Time
}

func (a Anchor) OK() bool {
	return a.Kind == AnchorMembershipStart || a.Kind == AnchorAccountCreated
}

// SelectAnchor prefers the membership start and falls back to the account
// creation date. Unparsable values count as absent, but if either input was
// non-empty and nothing parsed the result is AnchorUnparsable so a corrupt
// record can be told apart from an empty one.
func SelectAnchor(membershipStart, accountCreatedAt string) Anchor {
	start, ok, startErr := ParseDate(membershipStart)
	if ok {
		return Anchor{Kind: AnchorMembershipStart, Date: start}
	}
	created, ok, createdErr := ParseDate(accountCreatedAt)
	if ok {
		return Anchor{Kind: AnchorAccountCreated, Date: created}
	}
	if startErr != nil || createdErr != nil {
		return Anchor{Kind: AnchorUnparsable}
	}
	return Anchor{Kind: AnchorMissing}
}

// AnchorOf is SelectAnchor for already-typed values.
func AnchorOf(membershipStart *time.Time, accountCreatedAt time.Time) Anchor {
	if membershipStart != nil && !membershipStart.IsZero() {
		return Anchor{Kind: AnchorMembershipStart, Date: DateOf(*membershipStart)}
	}
	if !accountCreatedAt.IsZero() {
		return Anchor{Kind: AnchorAccountCreated, Date: DateOf(accountCreatedAt)}
	}
	return Anchor{Kind: AnchorMissing}
}

// =============================================================================
// EXPIRATION
// =============================================================================

// ExpirationKind tags an Expiration.
type ExpirationKind string

const (
	ExpirationKnown      ExpirationKind = "known"
	ExpirationNoAnchor   ExpirationKind = "no_anchor"
	ExpirationUnparsable ExpirationKind = "unparsable"
)

// Expiration is the computed end of a membership period.
type Expiration struct {
	Kind   ExpirationKind
	Date   time.Time
	Anchor Anchor
	Period Period
}

// OK reports whether Date holds a computed expiration.
func (e Expiration) OK() bool { return e.Kind == ExpirationKnown }

// Expire computes the expiration for an anchor and period.
func Expire(anchor Anchor, p Period) Expiration {
	exp := Expiration{Anchor: anchor, Period: p}
	switch {
	case anchor.OK():
		exp.Kind = ExpirationKnown
		exp.Date = p.AddTo(anchor.Date)
	case anchor.Kind == AnchorUnparsable:
		exp.Kind = ExpirationUnparsable
	default:
		exp.Kind = ExpirationNoAnchor
	}
	return exp
}

// Resolve selects the anchor, translates the label and computes the
// expiration in one step.
func Resolve(membershipStart, accountCreatedAt, periodLabel string) Expiration {
	return Expire(SelectAnchor(membershipStart, accountCreatedAt), PeriodFromLabel(periodLabel))
}

// ComputeExpiration returns the expiration date for raw inputs. ok is false
// when no anchor could be established.
func ComputeExpiration(membershipStart, accountCreatedAt, periodLabel string) (time.Time, bool) {
	exp := Resolve(membershipStart, accountCreatedAt, periodLabel)
	return exp.Date, exp.OK()
}

// ComputeExpirationFrom is the typed form used once the anchor is known.
func ComputeExpirationFrom(anchor time.Time, p Period) time.Time {
	return p.AddTo(anchor)
}
