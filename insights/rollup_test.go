package insights_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sybrisoft/toggl-insights/insights"
)

// entry builds a test record. Empty project or client strings mean the link
// is absent and the entry falls into the sentinel bucket.
func entry(seconds int64, user, project, client string) insights.TimeEntry {
	e := insights.TimeEntry{
		DurationSeconds: seconds,
		UserID:          insights.UserID(user),
		UserName:        user,
	}
	if project != "" {
		e.Project = insights.AssignedKey(project)
		e.ProjectName = project
	}
	if client != "" {
		e.Client = insights.AssignedKey(client)
		e.ClientName = client
	}
	return e
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// =============================================================================
// SUMMARY TESTS
// =============================================================================

func TestSummarize_MixedAssignments(t *testing.T) {
	// GIVEN: Two entries, one fully linked and one with no project
	// WHEN: Summarizing
	// THEN: Users count both, projects and clients count only assigned links

	entries := []insights.TimeEntry{
		entry(3600, "u1", "p1", "c1"),
		entry(1800, "u2", "", ""),
	}

	s, err := insights.Summarize(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", s.TotalUsers)
	}
	if s.TotalProjects != 1 {
		t.Errorf("expected 1 project, got %d", s.TotalProjects)
	}
	if s.TotalClients != 1 {
		t.Errorf("expected 1 client, got %d", s.TotalClients)
	}
	if !closeTo(s.TotalHours, 1.5) {
		t.Errorf("expected 1.5 hours, got %v", s.TotalHours)
	}
	if s.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", s.TotalEntries)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s, err := insights.Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != (insights.Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

// =============================================================================
// SENTINEL BUCKET TESTS
// =============================================================================

func TestByClient_SentinelCollapsesAcrossUsers(t *testing.T) {
	// GIVEN: Unlinked entries from several users plus one real client
	// WHEN: Rolling up by client
	// THEN: All unlinked entries share a single "No Client" row

	entries := []insights.TimeEntry{
		entry(3600, "u1", "", ""),
		entry(3600, "u2", "p-orphan", ""),
		entry(1800, "u3", "", ""),
		entry(900, "u1", "p1", "c1"),
	}

	rows, err := insights.ByClient(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ClientName != insights.NoClientName {
		t.Errorf("expected %q first, got %q", insights.NoClientName, rows[0].ClientName)
	}
	if rows[0].Key != insights.Unassigned {
		t.Errorf("expected the sentinel key, got %+v", rows[0].Key)
	}
	if !closeTo(rows[0].TotalHours, 2.5) {
		t.Errorf("expected 2.5 hours in sentinel bucket, got %v", rows[0].TotalHours)
	}
	if rows[0].EntryCount != 3 {
		t.Errorf("expected 3 entries in sentinel bucket, got %d", rows[0].EntryCount)
	}
}

func TestGroupKey_EmptyIdIsNotTheSentinel(t *testing.T) {
	// A real id that happens to be the empty string must not collide with
	// the unassigned bucket.
	if insights.AssignedKey("") == insights.Unassigned {
		t.Fatal("AssignedKey(\"\") must differ from Unassigned")
	}

	entries := []insights.TimeEntry{
		{DurationSeconds: 3600, UserID: "u1", UserName: "u1",
			Client: insights.AssignedKey(""), ClientName: "Emptyco"},
		entry(3600, "u1", "", ""),
	}
	rows, err := insights.ByClient(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 distinct rows, got %d", len(rows))
	}
}

// =============================================================================
// SORTING TESTS
// =============================================================================

func TestByClient_SortedDescendingWithStableTies(t *testing.T) {
	// GIVEN: Three clients where two tie on hours
	// WHEN: Rolling up
	// THEN: Highest first; tied rows keep first-seen input order

	entries := []insights.TimeEntry{
		entry(3600, "u1", "p-b", "beta"),
		entry(7200, "u1", "p-a", "alpha"),
		entry(3600, "u1", "p-g", "gamma"),
	}

	rows, err := insights.ByClient(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{rows[0].ClientName, rows[1].ClientName, rows[2].ClientName}
	want := []string{"alpha", "beta", "gamma"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// =============================================================================
// CONSERVATION TESTS
// =============================================================================

func TestRollups_EntryCountsAreConserved(t *testing.T) {
	entries := []insights.TimeEntry{
		entry(100, "u1", "p1", "c1"),
		entry(200, "u2", "p1", "c1"),
		entry(300, "u1", "p2", "c2"),
		entry(400, "u3", "", ""),
		entry(500, "u2", "p3", ""),
	}

	byClient, err := insights.ByClient(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byProject, err := insights.ByProject(entries, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byUser, err := insights.ByUser(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := func(name string, total int) {
		if total != len(entries) {
			t.Errorf("%s: entry counts sum to %d, expected %d", name, total, len(entries))
		}
	}
	sum := 0
	for _, r := range byClient {
		sum += r.EntryCount
	}
	count("ByClient", sum)
	sum = 0
	for _, r := range byProject {
		sum += r.EntryCount
	}
	count("ByProject", sum)
	sum = 0
	for _, r := range byUser {
		sum += r.EntryCount
	}
	count("ByUser", sum)
}

// =============================================================================
// CLIENT FILTER TESTS
// =============================================================================

func TestByProject_ClientFilter(t *testing.T) {
	// GIVEN: Projects for two clients plus an unlinked entry
	// WHEN: Filtering by one client
	// THEN: Only that client's projects appear; the sentinel is excluded too

	entries := []insights.TimeEntry{
		entry(3600, "u1", "p1", "c1"),
		entry(3600, "u1", "p2", "c2"),
		entry(3600, "u1", "", ""),
	}

	id := insights.ClientID("c1")
	rows, err := insights.ByProject(entries, &id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ProjectName != "p1" {
		t.Errorf("expected project p1, got %q", rows[0].ProjectName)
	}
}

// =============================================================================
// NESTED ROLLUP TESTS
// =============================================================================

func TestProjectsWithUsers_Nesting(t *testing.T) {
	entries := []insights.TimeEntry{
		entry(3600, "u1", "p1", "c1"),
		entry(7200, "u2", "p1", "c1"),
		entry(1800, "u1", "p1", "c1"),
		entry(900, "u3", "p2", "c2"),
	}

	rows, err := insights.ProjectsWithUsers(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(rows))
	}

	p1 := rows[0]
	if p1.ProjectName != "p1" {
		t.Fatalf("expected p1 first (most hours), got %q", p1.ProjectName)
	}
	if len(p1.Users) != 2 {
		t.Fatalf("expected 2 users under p1, got %d", len(p1.Users))
	}
	// u2 has 2h, u1 has 1.5h: descending by raw seconds
	if p1.Users[0].UserID != "u2" || p1.Users[1].UserID != "u1" {
		t.Errorf("expected user order [u2 u1], got [%s %s]", p1.Users[0].UserID, p1.Users[1].UserID)
	}
	if !closeTo(p1.Users[1].Hours, 1.5) {
		t.Errorf("expected u1 to have 1.5 hours, got %v", p1.Users[1].Hours)
	}
	if p1.Users[1].EntryCount != 2 {
		t.Errorf("expected u1 entry count 2, got %d", p1.Users[1].EntryCount)
	}
	if !closeTo(p1.TotalHours, 3.5) {
		t.Errorf("expected p1 total 3.5, got %v", p1.TotalHours)
	}
}

func TestProjectsWithUsers_TotalSumsRoundedUserHours(t *testing.T) {
	// GIVEN: Three users at 511s each (0.141944h, rounds to 0.14)
	// WHEN: Building the nested rollup
	// THEN: The project total is 0.42 (sum of rounded values), not the 0.43
	//       that rounding the raw 1533s sum would give

	entries := []insights.TimeEntry{
		entry(511, "u1", "p1", "c1"),
		entry(511, "u2", "p1", "c1"),
		entry(511, "u3", "p1", "c1"),
	}

	rows, err := insights.ProjectsWithUsers(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeTo(rows[0].TotalHours, 0.42) {
		t.Errorf("expected compounded total 0.42, got %v", rows[0].TotalHours)
	}

	flat, err := insights.ByProject(entries, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeTo(flat[0].TotalHours, 0.43) {
		t.Errorf("expected flat total 0.43, got %v", flat[0].TotalHours)
	}
}

func TestProjectsWithUsers_TiesOrderedByClientThenProject(t *testing.T) {
	// Two projects with identical hours: ascending (client, project) order
	// survives the stable descending sort.
	entries := []insights.TimeEntry{
		entry(3600, "u1", "zeta", "beta"),
		entry(3600, "u1", "alpha", "beta"),
		entry(3600, "u1", "mid", "acme"),
	}

	rows, err := insights.ProjectsWithUsers(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{rows[0].ProjectName, rows[1].ProjectName, rows[2].ProjectName}
	want := []string{"mid", "alpha", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestRollups_RejectNegativeDuration(t *testing.T) {
	bad := []insights.TimeEntry{
		entry(3600, "u1", "p1", "c1"),
		{ID: "e2", DurationSeconds: -60, UserID: "u2", UserName: "u2"},
	}

	checks := []struct {
		name string
		run  func() error
	}{
		{"ByClient", func() error { _, err := insights.ByClient(bad); return err }},
		{"ByProject", func() error { _, err := insights.ByProject(bad, nil); return err }},
		{"ByUser", func() error { _, err := insights.ByUser(bad); return err }},
		{"Summarize", func() error { _, err := insights.Summarize(bad); return err }},
		{"ProjectsWithUsers", func() error { _, err := insights.ProjectsWithUsers(bad); return err }},
	}

	for _, c := range checks {
		err := c.run()
		if !errors.Is(err, insights.ErrInvalidEntry) {
			t.Errorf("%s: expected ErrInvalidEntry, got %v", c.name, err)
			continue
		}
		var entryErr *insights.InvalidEntryError
		if !errors.As(err, &entryErr) {
			t.Errorf("%s: expected *InvalidEntryError, got %T", c.name, err)
			continue
		}
		if entryErr.EntryID != "e2" {
			t.Errorf("%s: expected offending entry e2, got %q", c.name, entryErr.EntryID)
		}
	}
}

func TestRollups_ZeroDurationIsAccepted(t *testing.T) {
	rows, err := insights.ByUser([]insights.TimeEntry{entry(0, "u1", "", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalHours != 0 {
		t.Errorf("expected one zero-hour row, got %+v", rows)
	}
}
