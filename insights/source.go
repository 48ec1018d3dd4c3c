/*
source.go - Persistence interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the pure reporting logic and whatever stores
  the tracked data. The engine never touches a database; it receives entries
  through EntrySource and budget snapshots through BudgetStore.

INTERVAL CONTRACT:
  FetchEntries applies the half-open filter itself:
  range.Start <= entry.Start < range.End. The rollup functions assume
  pre-filtered input.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - insights/store: In-memory store for testing

SEE ALSO:
  - service.go: The query surface built on these interfaces
*/
package insights

import "context"

// EntrySource provides read access to tracked time entries and the client
// directory. Entries come back with denormalized user/project/client names.
type EntrySource interface {
	// FetchEntries returns entries with Start inside the half-open range.
	// A non-nil client id restricts results to that client's projects.
	FetchEntries(ctx context.Context, r DateRange, client *ClientID) ([]TimeEntry, error)

	// ListClients returns all known clients ordered by name.
	ListClients(ctx context.Context) ([]Client, error)
}

// BudgetStore persists the client budget mapping. Reads return the full
// snapshot; writes upsert a single client's limit.
type BudgetStore interface {
	Budgets(ctx context.Context) (BudgetBook, error)
	SaveBudget(ctx context.Context, clientName string, limitHours float64) error
}
