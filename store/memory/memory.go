// Package memory provides an in-memory clients.Repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/membership-engine/clients"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	clients   map[string]clients.Client
	renewals  map[string][]clients.Renewal
	alertRuns []clients.AlertRun
}

func New() *Store {
	return &Store{
		clients:  make(map[string]clients.Client),
		renewals: make(map[string][]clients.Renewal),
	}
}

// SaveClient inserts or replaces by ID.
func (m *Store) SaveClient(_ context.Context, c clients.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = copyClient(c)
	return nil
}

func (m *Store) GetClient(_ context.Context, id string) (*clients.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, clients.ErrClientNotFound
	}
	c = copyClient(c)
	return &c, nil
}

// ListClients returns copies ordered by name, then ID.
func (m *Store) ListClients(_ context.Context) ([]clients.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]clients.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, copyClient(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Store) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return clients.ErrClientNotFound
	}
	delete(m.clients, id)
	delete(m.renewals, id)
	return nil
}

// SaveRenewal replaces the client and appends the renewal under one lock.
func (m *Store) SaveRenewal(_ context.Context, c clients.Client, r clients.Renewal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.ID]; !ok {
		return clients.ErrClientNotFound
	}
	m.clients[c.ID] = copyClient(c)
	m.renewals[r.ClientID] = append(m.renewals[r.ClientID], r)
	return nil
}

// ListRenewals returns newest first.
func (m *Store) ListRenewals(_ context.Context, clientID string) ([]clients.Renewal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.renewals[clientID]
	out := make([]clients.Renewal, len(src))
	for i, r := range src {
		out[len(src)-1-i] = r
	}
	return out, nil
}

func (m *Store) SaveAlertRun(_ context.Context, r clients.AlertRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertRuns = append(m.alertRuns, r)
	return nil
}

func (m *Store) ListAlertRuns(_ context.Context, limit int) ([]clients.AlertRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.alertRuns)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]clients.AlertRun, 0, n)
	for i := len(m.alertRuns) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.alertRuns[i])
	}
	return out, nil
}

func copyClient(c clients.Client) clients.Client {
	if c.MembershipStart != nil {
		t := *c.MembershipStart
		c.MembershipStart = &t
	}
	return c
}
