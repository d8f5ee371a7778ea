package membership

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PLAN CATALOG
// =============================================================================

// PlanID identifies a plan.
type PlanID string

// Plan is what a client signs up for. The period is fixed here, when the plan
// is picked, so nothing downstream has to read the label again.
type Plan struct {
	ID       PlanID
	Name     string
	Period   Period
	Price    decimal.Decimal
	Currency string
}

// Catalog is an ordered plan list.
type Catalog struct {
	plans []Plan
}

// NewCatalog rejects duplicate IDs, invalid periods and negative prices.
func NewCatalog(plans ...Plan) (*Catalog, error) {
	seen := make(map[PlanID]bool, len(plans))
	for _, p := range plans {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate plan %q", p.ID)
		}
		if !p.Period.Valid() {
			return nil, fmt.Errorf("plan %q: %w: %q", p.ID, ErrUnknownPeriod, p.Period)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("plan %q: negative price %s", p.ID, p.Price)
		}
		seen[p.ID] = true
	}
	return &Catalog{plans: append([]Plan(nil), plans...)}, nil
}

// DefaultCatalog has one plan per period.
func DefaultCatalog() *Catalog {
	mk := func(id string, p Period, price string) Plan {
		return Plan{ID: PlanID(id), Name: p.Label(), Period: p, Price: decimal.RequireFromString(price), Currency: "MXN"}
	}
	c, err := NewCatalog(
		mk("plan-diario", PeriodDaily, "60"),
		mk("plan-quincenal", PeriodBiweekly, "350"),
		mk("plan-mensual", PeriodMonthly, "600"),
		mk("plan-trimestral", PeriodQuarterly, "1650"),
		mk("plan-semestral", PeriodSemiannual, "3100"),
		mk("plan-anual", PeriodAnnual, "5800"),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Plans() []Plan {
	return append([]Plan(nil), c.plans...)
}

// Find returns the plan with the given ID.
func (c *Catalog) Find(id PlanID) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// ForPeriod lists plans billed at period p.
func (c *Catalog) ForPeriod(p Period) []Plan {
	var out []Plan
	for _, plan := range c.plans {
		if plan.Period == p {
			out = append(out, plan)
		}
	}
	return out
}
