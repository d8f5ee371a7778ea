/*
Package sqlite provides a SQLite-backed implementation of clients.Repository.

PURPOSE:
  Persists the gym roster, membership renewals and expiration-alert runs.
  Membership status is never stored: it depends on the day it is read, so
  it is always recomputed from the stored anchor and period.

KEY TABLES:
  clients:              Roster (plan, period label, membership start)
  membership_renewals:  One row per anchor reset, append-only
  alert_runs:           Scheduler history for the dashboard

DATE STORAGE:
  Calendar dates (membership_start, renewal dates) are TEXT "YYYY-MM-DD".
  Instants (created_at, ran_at) are TEXT RFC3339 in UTC.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  Opened with WAL so dashboard reads don't block renewals.

USAGE:
  store, err := sqlite.New("./data/gym.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := clients.NewService(store, logger)

SEE ALSO:
  - clients/repository.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/membership-engine/clients"
	"github.com/warp/membership-engine/membership"
)

const dateLayout = "2006-01-02"

// Store implements clients.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ clients.Repository = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		plan_id TEXT,
		period_label TEXT,
		membership_start TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name);

	-- Append-only; a client's history goes with it
	CREATE TABLE IF NOT EXISTS membership_renewals (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		previous_start TEXT,
		new_start TEXT NOT NULL,
		period TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_renewals_client
		ON membership_renewals(client_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS alert_runs (
		id TEXT PRIMARY KEY,
		ran_at TEXT NOT NULL,
		as_of TEXT NOT NULL,
		active INTEGER NOT NULL,
		expiring_soon INTEGER NOT NULL,
		expired INTEGER NOT NULL,
		unknown INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_alert_runs_ran_at ON alert_runs(ran_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data. Used by tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"membership_renewals", "alert_runs", "clients"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// CLIENTS
// =============================================================================

const clientColumns = "id, name, email, phone, plan_id, period_label, membership_start, created_at"

// SaveClient inserts or updates a client. created_at is kept on update.
func (s *Store) SaveClient(ctx context.Context, c clients.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertClient(ctx, s.db, c)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsertClient writes c through db or an open transaction. created_at keeps
// the clock's offset so its calendar date is the one the client signed up on.
func upsertClient(ctx context.Context, db execer, c clients.Client) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			plan_id = excluded.plan_id,
			period_label = excluded.period_label,
			membership_start = excluded.membership_start
	`

	_, err := db.ExecContext(ctx, query,
		c.ID, c.Name,
		nullString(c.Email), nullString(c.Phone),
		nullString(c.PlanID), nullString(c.PeriodLabel),
		nullDate(c.MembershipStart),
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*clients.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", clients.ErrClientNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]clients.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []clients.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteClient removes a client and, through the foreign key, its renewals.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", clients.ErrClientNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(r scanner) (clients.Client, error) {
	var c clients.Client
	var email, phone, planID, periodLabel, start sql.NullString
	var createdAt string

	if err := r.Scan(&c.ID, &c.Name, &email, &phone, &planID, &periodLabel, &start, &createdAt); err != nil {
		return c, err
	}

	c.Email = email.String
	c.Phone = phone.String
	c.PlanID = planID.String
	c.PeriodLabel = periodLabel.String
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	// A corrupt start is left nil so the membership falls back to created_at.
	c.MembershipStart = parseNullDate(start)
	return c, nil
}

// =============================================================================
// RENEWALS
// =============================================================================

// SaveRenewal stores the renewed client and its audit row in one
// transaction.
func (s *Store) SaveRenewal(ctx context.Context, c clients.Client, r clients.Renewal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin renewal: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE clients SET period_label = ?, membership_start = ? WHERE id = ?",
		nullString(c.PeriodLabel), nullDate(c.MembershipStart), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", clients.ErrClientNotFound, c.ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO membership_renewals (id, client_id, previous_start, new_start, period, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ClientID,
		nullDate(r.PreviousStart),
		r.NewStart.Format(dateLayout),
		string(r.Period),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("renewal %s already recorded: %w", r.ID, err)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListRenewals returns a client's renewals, newest first.
func (s *Store) ListRenewals(ctx context.Context, clientID string) ([]clients.Renewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, previous_start, new_start, period, created_at
		FROM membership_renewals
		WHERE client_id = ?
		ORDER BY created_at DESC, rowid DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []clients.Renewal
	for rows.Next() {
		var r clients.Renewal
		var prev sql.NullString
		var newStart, period, createdAt string
		if err := rows.Scan(&r.ID, &r.ClientID, &prev, &newStart, &period, &createdAt); err != nil {
			return nil, err
		}
		r.PreviousStart = parseNullDate(prev)
		r.NewStart, _ = time.Parse(dateLayout, newStart)
		r.Period = membership.Period(period)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// ALERT RUNS
// =============================================================================

// SaveAlertRun records a scheduler pass.
func (s *Store) SaveAlertRun(ctx context.Context, r clients.AlertRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_runs (id, ran_at, as_of, active, expiring_soon, expired, unknown)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.RanAt.UTC().Format(time.RFC3339Nano),
		r.AsOf.Format(dateLayout),
		r.Active, r.ExpiringSoon, r.Expired, r.Unknown,
	)
	return err
}

// ListAlertRuns returns up to limit runs, newest first.
func (s *Store) ListAlertRuns(ctx context.Context, limit int) ([]clients.AlertRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, ran_at, as_of, active, expiring_soon, expired, unknown
		FROM alert_runs
		ORDER BY ran_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []clients.AlertRun
	for rows.Next() {
		var r clients.AlertRun
		var ranAt, asOf string
		if err := rows.Scan(&r.ID, &ranAt, &asOf, &r.Active, &r.ExpiringSoon, &r.Expired, &r.Unknown); err != nil {
			return nil, err
		}
		r.RanAt, _ = time.Parse(time.RFC3339Nano, ranAt)
		r.AsOf, _ = time.Parse(dateLayout, asOf)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseNullDate(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	d, ok, err := membership.ParseDate(ns.String)
	if err != nil || !ok {
		return nil
	}
	return &d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
