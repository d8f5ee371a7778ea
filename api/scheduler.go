/*
scheduler.go - Periodic membership expiration alerts

PURPOSE:
  Periodically evaluates every membership, records how many are active,
  expiring soon and expired, and logs the clients about to run out so
  front-desk staff can follow up.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Samples "now" once per pass so all counts agree
  - Records each pass as an AlertRun for the dashboard history

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - WindowDays:    How far ahead to list upcoming expirations (default: 7)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewExpirationScheduler(svc, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: /api/alerts endpoints read what this writes
  - clients/service.go: Summary, ExpiringWithin
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/membership-engine/clients"
)

// ExpirationScheduler records expiration alert passes.
type ExpirationScheduler struct {
	Service       *clients.Service
	Logger        *slog.Logger
	CheckInterval time.Duration
	WindowDays    int
	Enabled       bool

	// Now supplies the reference time for each pass.
	Now func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewExpirationScheduler creates a new scheduler.
func NewExpirationScheduler(svc *clients.Service, logger *slog.Logger) *ExpirationScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpirationScheduler{
		Service:       svc,
		Logger:        logger.With("component", "scheduler"),
		CheckInterval: 1 * time.Hour,
		WindowDays:    7,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (s *ExpirationScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.running {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.running = true
	s.wg.Add(1)

	go s.run()

	s.Logger.Info("started", "interval", s.CheckInterval, "window_days", s.WindowDays)
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (s *ExpirationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.running = false
	s.Logger.Info("stopped")
}

func (s *ExpirationScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.pass()

	for {
		select {
		case <-s.ticker.C:
			s.pass()
		case <-s.stop:
			return
		}
	}
}

func (s *ExpirationScheduler) pass() {
	ctx, cancel := context.WithTimeout(context.Background(), s.CheckInterval)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.Logger.Error("alert pass failed", "error", err)
	}
}

// RunOnce performs a single pass: it records an AlertRun and logs the
// clients expiring within WindowDays.
func (s *ExpirationScheduler) RunOnce(ctx context.Context) (*clients.AlertRun, error) {
	now := s.Now()

	run, err := s.Service.RecordAlertRun(ctx, now)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.Service.ExpiringWithin(ctx, s.WindowDays, now)
	if err != nil {
		return run, err
	}
	for _, v := range upcoming {
		s.Logger.Info("membership expiring",
			"client_id", v.Client.ID,
			"client", v.Client.Name,
			"expires_on", v.Membership.Expiration.Date.Format(dateLayout),
			"days_remaining", *v.Membership.DaysRemaining)
	}

	s.Logger.Info("alert pass complete",
		"as_of", run.AsOf.Format(dateLayout),
		"active", run.Active,
		"expiring_soon", run.ExpiringSoon,
		"expired", run.Expired,
		"unknown", run.Unknown,
		"upcoming", len(upcoming))
	return run, nil
}
