/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements insights.EntrySource and insights.BudgetStore using SQLite.
  The same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  clients:        Client directory (id, name, archived)
  projects:       Projects, optionally linked to a client
  users:          Users producing time entries
  time_entries:   Raw tracked-work facts (the only large table)
  client_budgets: Monthly hour limits keyed by client name

INTERVAL FILTER:
  FetchEntries applies the half-open filter in SQL:
  start >= ? AND start < ?. Timestamps are stored as RFC3339 UTC strings, so
  lexicographic comparison matches chronological order.

DENORMALIZATION:
  Entries come back with user/project/client names resolved via LEFT JOINs,
  so the engine never needs follow-up lookups. A missing project or client
  becomes the sentinel bucket key.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery improves.

BUDGET SEEDING:
  SeedDefaultBudgets writes the fixed starting mapping only when no budget
  rows exist yet; user edits are never overwritten.

USAGE:
  store, err := sqlite.New("./data/insights.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  svc := insights.NewService(store)

SEE ALSO:
  - insights/source.go: Interface definitions
  - insights/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sybrisoft/toggl-insights/insights"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		archived BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client_id TEXT REFERENCES clients(id),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		project_id TEXT REFERENCES projects(id),
		start TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: every query filters on the half-open start interval.
	CREATE INDEX IF NOT EXISTS idx_time_entries_start
		ON time_entries(start);
	CREATE INDEX IF NOT EXISTS idx_time_entries_user
		ON time_entries(user_id, start);
	CREATE INDEX IF NOT EXISTS idx_time_entries_project
		ON time_entries(project_id, start);

	CREATE TABLE IF NOT EXISTS client_budgets (
		client_name TEXT PRIMARY KEY,
		limit_hours REAL NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY SOURCE (insights.EntrySource interface)
// =============================================================================

// FetchEntries returns entries with start inside the half-open range, with
// user/project/client names denormalized. A non-nil client id restricts
// results to that client's projects.
func (s *Store) FetchEntries(ctx context.Context, r insights.DateRange, client *insights.ClientID) ([]insights.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT te.id, te.start, te.duration_seconds,
		       te.user_id, u.name,
		       te.project_id, COALESCE(p.name, ''),
		       p.client_id, COALESCE(c.name, '')
		FROM time_entries te
		JOIN users u ON te.user_id = u.id
		LEFT JOIN projects p ON te.project_id = p.id
		LEFT JOIN clients c ON p.client_id = c.id
		WHERE te.start >= ? AND te.start < ?
	`
	args := []any{
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
	}

	if client != nil {
		query += ` AND c.id = ?`
		args = append(args, string(*client))
	}

	query += ` ORDER BY te.start ASC, te.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []insights.TimeEntry
	for rows.Next() {
		var (
			e         insights.TimeEntry
			startStr  string
			projectID sql.NullString
			clientID  sql.NullString
		)
		if err := rows.Scan(&e.ID, &startStr, &e.DurationSeconds,
			&e.UserID, &e.UserName,
			&projectID, &e.ProjectName,
			&clientID, &e.ClientName); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}

		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt start timestamp for entry %s: %w", e.ID, err)
		}
		e.Start = start

		if projectID.Valid {
			e.Project = insights.AssignedKey(projectID.String)
		}
		if clientID.Valid {
			e.Client = insights.AssignedKey(clientID.String)
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]insights.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, archived FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []insights.Client
	for rows.Next() {
		var c insights.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// =============================================================================
// BUDGET STORE (insights.BudgetStore interface)
// =============================================================================

// Budgets returns the full budget mapping.
func (s *Store) Budgets(ctx context.Context) (insights.BudgetBook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT client_name, limit_hours FROM client_budgets")
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	budgets := make(insights.BudgetBook)
	for rows.Next() {
		var name string
		var limit float64
		if err := rows.Scan(&name, &limit); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets[name] = limit
	}
	return budgets, rows.Err()
}

// SaveBudget upserts a single client's monthly limit.
func (s *Store) SaveBudget(ctx context.Context, clientName string, limitHours float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_budgets (client_name, limit_hours, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(client_name) DO UPDATE SET
			limit_hours = excluded.limit_hours,
			updated_at = excluded.updated_at
	`, clientName, limitHours, now())
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// SeedDefaultBudgets writes the default mapping if and only if no budget
// rows exist yet.
func (s *Store) SeedDefaultBudgets(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM client_budgets").Scan(&count); err != nil {
		return fmt.Errorf("failed to count budgets: %w", err)
	}
	if count > 0 {
		return nil
	}

	for name, limit := range insights.DefaultBudgets() {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO client_budgets (client_name, limit_hours, updated_at)
			VALUES (?, ?, ?)
		`, name, limit, now()); err != nil {
			return fmt.Errorf("failed to seed budget for %s: %w", name, err)
		}
	}
	return nil
}

// =============================================================================
// REFERENCE DATA WRITERS - used by importers, seeding, and tests
// =============================================================================

// ClientRecord is a row in the clients table.
type ClientRecord struct {
	ID       string
	Name     string
	Archived bool
}

// ProjectRecord is a row in the projects table. A nil ClientID means the
// project is not assigned to any client.
type ProjectRecord struct {
	ID       string
	Name     string
	ClientID *string
}

// UserRecord is a row in the users table.
type UserRecord struct {
	ID   string
	Name string
}

// EntryRecord is a row in the time_entries table. A nil ProjectID means the
// entry is not assigned to any project.
type EntryRecord struct {
	ID              string
	UserID          string
	ProjectID       *string
	Start           time.Time
	DurationSeconds int64
	Description     string
}

func (s *Store) SaveClient(ctx context.Context, c ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO clients (id, name, archived, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.Archived, now())
	if err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (s *Store) SaveProject(ctx context.Context, p ProjectRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projects (id, name, client_id, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, nullString(p.ClientID), now())
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, u UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, name, created_at)
		VALUES (?, ?, ?)
	`, u.ID, u.Name, now())
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) SaveEntry(ctx context.Context, e EntryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO time_entries
		(id, user_id, project_id, start, duration_seconds, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, nullString(e.ProjectID),
		e.Start.UTC().Format(time.RFC3339), e.DurationSeconds, e.Description, now())
	if err != nil {
		return fmt.Errorf("failed to save time entry: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
