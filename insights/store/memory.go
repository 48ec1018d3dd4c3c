// Package store provides EntrySource implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sybrisoft/toggl-insights/insights"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries []insights.TimeEntry
	clients map[insights.ClientID]insights.Client
	budgets insights.BudgetBook
}

func NewMemory() *Memory {
	return &Memory{
		clients: make(map[insights.ClientID]insights.Client),
		budgets: make(insights.BudgetBook),
	}
}

// AddEntries appends entries; insertion order is preserved, which makes
// tie-break assertions in tests deterministic.
func (m *Memory) AddEntries(entries ...insights.TimeEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
}

// AddClients registers clients for ListClients and filter matching.
func (m *Memory) AddClients(clients ...insights.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range clients {
		m.clients[c.ID] = c
	}
}

// FetchEntries applies the half-open interval filter and the optional client
// restriction, returning a copy in insertion order.
func (m *Memory) FetchEntries(_ context.Context, r insights.DateRange, client *insights.ClientID) ([]insights.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []insights.TimeEntry
	for _, e := range m.entries {
		if !r.Contains(e.Start) {
			continue
		}
		if client != nil && (!e.Client.Assigned || e.Client.ID != string(*client)) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *Memory) ListClients(_ context.Context) ([]insights.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]insights.Client, 0, len(m.clients))
	for _, c := range m.clients {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) Budgets(_ context.Context) (insights.BudgetBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(insights.BudgetBook, len(m.budgets))
	for name, limit := range m.budgets {
		snapshot[name] = limit
	}
	return snapshot, nil
}

func (m *Memory) SaveBudget(_ context.Context, clientName string, limitHours float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[clientName] = limitHours
	return nil
}
