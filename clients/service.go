package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/membership-engine/membership"
)

// Service evaluates memberships for the roster.
type Service struct {
	Repo    Repository
	Catalog *membership.Catalog
	Logger  *slog.Logger

	// Clock is used for record timestamps (CreatedAt, RanAt). Status
	// evaluation always takes an explicit reference time instead.
	Clock func() time.Time
}

// NewService wires a service with the default catalog.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:    repo,
		Catalog: membership.DefaultCatalog(),
		Logger:  logger,
		Clock:   time.Now,
	}
}

// Evaluate builds the membership view of c at the evaluator's date.
func Evaluate(c Client, ev membership.Evaluator) Membership {
	return EvaluateExpiration(c.Expiration(), ev)
}

// EvaluateExpiration builds the view for an already computed expiration.
func EvaluateExpiration(exp membership.Expiration, ev membership.Evaluator) Membership {
	m := Membership{
		AsOf:        ev.Today(),
		Period:      exp.Period,
		Expiration:  exp,
		Status:      ev.Status(exp),
		DisplayDate: membership.FormatDisplayDate(exp.Date, exp.OK()),
	}
	if d, ok := ev.DaysRemaining(exp); ok {
		m.DaysRemaining = &d
	}
	return m
}

// =============================================================================
// READS
// =============================================================================

// List returns clients whose status at now passes the filter.
func (s *Service) List(ctx context.Context, filter Filter, now time.Time) ([]View, error) {
	all, err := s.Repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	ev := membership.NewEvaluator(now)
	views := make([]View, 0, len(all))
	for _, c := range all {
		m := Evaluate(c, ev)
		if filter.Match(m.Status) {
			views = append(views, View{Client: c, Membership: m})
		}
	}
	return views, nil
}

// Get returns one client's detail.
func (s *Service) Get(ctx context.Context, id string, now time.Time) (*View, error) {
	c, err := s.Repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{Client: *c, Membership: Evaluate(*c, membership.NewEvaluator(now))}, nil
}

// ExpiringWithin lists clients whose membership ends in (now, now+days],
// soonest first. days=7 drives the dashboard's "this week" widget.
func (s *Service) ExpiringWithin(ctx context.Context, days int, now time.Time) ([]View, error) {
	if days < 1 {
		return nil, &InvalidInputError{Field: "days", Reason: "must be at least 1"}
	}
	all, err := s.Repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	ev := membership.NewEvaluator(now)
	var views []View
	for _, c := range all {
		m := Evaluate(c, ev)
		if ev.ExpiresWithin(m.Expiration, days) {
			views = append(views, View{Client: c, Membership: m})
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return *views[i].Membership.DaysRemaining < *views[j].Membership.DaysRemaining
	})
	return views, nil
}

// Summary counts the roster per status.
func (s *Service) Summary(ctx context.Context, now time.Time) (membership.Summary, error) {
	all, err := s.Repo.ListClients(ctx)
	if err != nil {
		return membership.Summary{}, fmt.Errorf("list clients: %w", err)
	}
	ev := membership.NewEvaluator(now)
	exps := make([]membership.Expiration, len(all))
	for i, c := range all {
		exps[i] = c.Expiration()
	}
	return ev.Summarize(exps), nil
}

// Renewals returns a client's renewal history.
func (s *Service) Renewals(ctx context.Context, clientID string) ([]Renewal, error) {
	if _, err := s.Repo.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.Repo.ListRenewals(ctx, clientID)
}

// =============================================================================
// WRITES
// =============================================================================

// NewClient is the input to Create.
type NewClient struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	PlanID          string
	PeriodLabel     string
	MembershipStart *time.Time
}

// Create validates and stores a client. When PlanID is set the plan's period
// wins over any label.
func (s *Service) Create(ctx context.Context, in NewClient) (*Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &InvalidInputError{Field: "name", Reason: "required"}
	}

	c := Client{
		ID:          in.ID,
		Name:        name,
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		PlanID:      in.PlanID,
		PeriodLabel: in.PeriodLabel,
		// Keep the clock's offset: the fallback anchor is this instant's
		// local calendar date.
		CreatedAt: s.Clock(),
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if in.MembershipStart != nil {
		start := membership.DateOf(*in.MembershipStart)
		c.MembershipStart = &start
	}
	if in.PlanID != "" {
		plan, ok := s.Catalog.Find(membership.PlanID(in.PlanID))
		if !ok {
			return nil, &InvalidInputError{Field: "plan_id", Reason: "unknown plan " + in.PlanID}
		}
		c.PeriodLabel = string(plan.Period)
	}

	if err := s.Repo.SaveClient(ctx, c); err != nil {
		return nil, fmt.Errorf("save client: %w", err)
	}
	s.Logger.Info("client created", "client_id", c.ID, "period", c.Period())
	return &c, nil
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.DeleteClient(ctx, id)
}

// Renew resets the membership anchor to start. An empty period keeps the
// client's current one. The derived status jumps back to active (unless the
// new start is itself in the past).
func (s *Service) Renew(ctx context.Context, id string, start time.Time, period membership.Period) (*Client, error) {
	if start.IsZero() {
		return nil, &InvalidInputError{Field: "start", Reason: "required"}
	}
	if period != "" && !period.Valid() {
		return nil, &InvalidInputError{Field: "period", Reason: "unknown period " + string(period)}
	}

	c, err := s.Repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = c.Period()
	}

	newStart := membership.DateOf(start)
	renewal := Renewal{
		ID:            uuid.NewString(),
		ClientID:      c.ID,
		PreviousStart: c.MembershipStart,
		NewStart:      newStart,
		Period:        period,
		CreatedAt:     s.Clock().UTC(),
	}

	c.MembershipStart = &newStart
	c.PeriodLabel = string(period)
	if err := s.Repo.SaveRenewal(ctx, *c, renewal); err != nil {
		return nil, fmt.Errorf("save renewal: %w", err)
	}

	s.Logger.Info("membership renewed",
		"client_id", c.ID,
		"start", newStart.Format("2006-01-02"),
		"period", period,
		"expires", period.AddTo(newStart).Format("2006-01-02"))
	return c, nil
}

// RecordAlertRun computes the summary at now and stores it.
func (s *Service) RecordAlertRun(ctx context.Context, now time.Time) (*AlertRun, error) {
	sum, err := s.Summary(ctx, now)
	if err != nil {
		return nil, err
	}
	run := AlertRun{
		ID:           uuid.NewString(),
		RanAt:        s.Clock().UTC(),
		AsOf:         sum.AsOf,
		Active:       sum.Active,
		ExpiringSoon: sum.ExpiringSoon,
		Expired:      sum.Expired,
		Unknown:      sum.Unknown,
	}
	if err := s.Repo.SaveAlertRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save alert run: %w", err)
	}
	return &run, nil
}
