package clients

import "context"

// Repository persists the roster and its audit rows.
//
// Implementations:
//   - store/sqlite: SQLite
//   - store/memory: in-memory, for tests and throwaway runs
type Repository interface {
	// SaveClient inserts or replaces a client by ID.
	SaveClient(ctx context.Context, c Client) error
	// GetClient returns ErrClientNotFound when the ID is unknown.
	GetClient(ctx context.Context, id string) (*Client, error)
	// ListClients returns every client ordered by name.
	ListClients(ctx context.Context) ([]Client, error)
	// DeleteClient returns ErrClientNotFound when the ID is unknown.
	DeleteClient(ctx context.Context, id string) error

	// SaveRenewal stores the renewed client and its Renewal atomically:
	// either both are written or neither is.
	SaveRenewal(ctx context.Context, c Client, r Renewal) error
	// ListRenewals returns a client's renewals, newest first.
	ListRenewals(ctx context.Context, clientID string) ([]Renewal, error)

	SaveAlertRun(ctx context.Context, r AlertRun) error
	// ListAlertRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListAlertRuns(ctx context.Context, limit int) ([]AlertRun, error)
}
