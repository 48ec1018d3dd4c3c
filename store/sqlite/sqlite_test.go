package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sybrisoft/toggl-insights/insights"
	"github.com/sybrisoft/toggl-insights/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func ptr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedReferenceData writes two clients, three projects (one orphaned), two
// users, and entries spread around the March 2025 boundaries.
func seedReferenceData(t *testing.T, store *sqlite.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, sqlite.ClientRecord{ID: "c1", Name: "Payout"}))
	require.NoError(t, store.SaveClient(ctx, sqlite.ClientRecord{ID: "c2", Name: "Autocar"}))

	require.NoError(t, store.SaveProject(ctx, sqlite.ProjectRecord{ID: "p1", Name: "Billing", ClientID: ptr("c1")}))
	require.NoError(t, store.SaveProject(ctx, sqlite.ProjectRecord{ID: "p2", Name: "Fleet", ClientID: ptr("c2")}))
	require.NoError(t, store.SaveProject(ctx, sqlite.ProjectRecord{ID: "p3", Name: "Internal", ClientID: nil}))

	require.NoError(t, store.SaveUser(ctx, sqlite.UserRecord{ID: "u1", Name: "Ana"}))
	require.NoError(t, store.SaveUser(ctx, sqlite.UserRecord{ID: "u2", Name: "Bor"}))

	entries := []sqlite.EntryRecord{
		{ID: "e1", UserID: "u1", ProjectID: ptr("p1"), Start: day(2025, time.March, 1), DurationSeconds: 3600},
		{ID: "e2", UserID: "u2", ProjectID: ptr("p2"), Start: day(2025, time.March, 15), DurationSeconds: 1800},
		{ID: "e3", UserID: "u1", ProjectID: ptr("p3"), Start: day(2025, time.March, 20), DurationSeconds: 900},
		{ID: "e4", UserID: "u2", ProjectID: nil, Start: time.Date(2025, time.March, 31, 23, 30, 0, 0, time.UTC), DurationSeconds: 600},
		// Exactly on the exclusive end boundary
		{ID: "e5", UserID: "u1", ProjectID: ptr("p1"), Start: day(2025, time.April, 1), DurationSeconds: 7200},
		// Before the range
		{ID: "e6", UserID: "u1", ProjectID: ptr("p1"), Start: day(2025, time.February, 28), DurationSeconds: 7200},
	}
	for _, e := range entries {
		require.NoError(t, store.SaveEntry(ctx, e))
	}
}

func march2025() insights.DateRange {
	return insights.Resolve(insights.RangeMonth, day(2025, time.March, 10))
}

// =============================================================================
// FETCH ENTRIES TESTS
// =============================================================================

func TestFetchEntries_HalfOpenInterval(t *testing.T) {
	// GIVEN: Entries before, inside, and exactly at the range boundaries
	// WHEN: Fetching for March 2025
	// THEN: The start instant is included, the end instant is not

	store := newTestStore(t)
	seedReferenceData(t, store)

	entries, err := store.FetchEntries(context.Background(), march2025(), nil)
	require.NoError(t, err)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, ids)
}

func TestFetchEntries_DenormalizesNames(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)

	entries, err := store.FetchEntries(context.Background(), march2025(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	e1 := entries[0]
	assert.Equal(t, insights.UserID("u1"), e1.UserID)
	assert.Equal(t, "Ana", e1.UserName)
	assert.Equal(t, insights.AssignedKey("p1"), e1.Project)
	assert.Equal(t, "Billing", e1.ProjectName)
	assert.Equal(t, insights.AssignedKey("c1"), e1.Client)
	assert.Equal(t, "Payout", e1.ClientName)
}

func TestFetchEntries_MissingLinksBecomeSentinels(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)

	entries, err := store.FetchEntries(context.Background(), march2025(), nil)
	require.NoError(t, err)

	// e3: project with no client
	e3 := entries[2]
	assert.True(t, e3.Project.Assigned)
	assert.Equal(t, insights.Unassigned, e3.Client)

	// e4: no project at all
	e4 := entries[3]
	assert.Equal(t, insights.Unassigned, e4.Project)
	assert.Equal(t, insights.Unassigned, e4.Client)
}

func TestFetchEntries_ClientFilter(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)

	id := insights.ClientID("c1")
	entries, err := store.FetchEntries(context.Background(), march2025(), &id)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
}

func TestFetchEntries_EmptyRange(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)

	r := insights.Resolve(insights.RangeMonth, day(2030, time.January, 1))
	entries, err := store.FetchEntries(context.Background(), r, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// CLIENT LIST TESTS
// =============================================================================

func TestListClients_OrderedByName(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)

	clients, err := store.ListClients(context.Background())
	require.NoError(t, err)

	require.Len(t, clients, 2)
	assert.Equal(t, "Autocar", clients[0].Name)
	assert.Equal(t, "Payout", clients[1].Name)
}

// =============================================================================
// BUDGET TESTS
// =============================================================================

func TestBudgets_SeedOnlyWhenEmpty(t *testing.T) {
	// GIVEN: A fresh store
	// WHEN: Seeding, editing a limit, then seeding again
	// THEN: The edit survives the second seed

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaultBudgets(ctx))

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, insights.DefaultBudgets(), budgets)

	require.NoError(t, store.SaveBudget(ctx, "Payout", 300))
	require.NoError(t, store.SeedDefaultBudgets(ctx))

	budgets, err = store.Budgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, budgets.Limit("Payout"))
}

func TestSaveBudget_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBudget(ctx, "Fringe", 40))
	require.NoError(t, store.SaveBudget(ctx, "Fringe", 55))

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 55.0, budgets.Limit("Fringe"))
}

// =============================================================================
// INTEGRATION - service over the SQLite source
// =============================================================================

func TestServiceOverSQLite_Summary(t *testing.T) {
	store := newTestStore(t)
	seedReferenceData(t, store)
	svc := insights.NewService(store)

	s, err := svc.Summary(context.Background(), insights.RangeQuery{
		Range:     insights.RangeMonth,
		Reference: day(2025, time.March, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalUsers)
	assert.Equal(t, 3, s.TotalProjects)
	assert.Equal(t, 2, s.TotalClients)
	assert.Equal(t, 4, s.TotalEntries)
	assert.InDelta(t, 1.92, s.TotalHours, 1e-9)
}
