/*
rollup.go - Aggregation of time entries into summary rows

PURPOSE:
  Groups pre-filtered time entries into the five reporting views: by client,
  by project, by user, nested project->user, and the global summary. All
  functions are pure: same entries in, same rows out, no shared state.

GROUPING POLICY:
  Entries with no project (or a project with no client) collapse into a
  single sentinel bucket keyed by the zero GroupKey - one "No Client" row and
  one "No Project" row total, regardless of how many such entries exist or
  which users produced them.

SORTING:
  Rollups are sorted descending by TotalHours; equal rows keep their input
  order (group keys are collected in first-seen order, then sorted stably).

ROUNDING:
  TotalHours is round(sum(seconds)/3600, 2). ProjectsWithUsers rounds each
  user's hours first and derives the project total by summing the ROUNDED
  values and rounding again. The compounding can differ by a cent-hour from
  rounding the raw second sum; consumers depend on the displayed figures, so
  the behavior is kept as-is.

INPUT CONTRACT:
  Entries are assumed to be pre-filtered to the requested interval by the
  query layer. A negative duration is rejected with ErrInvalidEntry.

SEE ALSO:
  - types.go: Row types and rounding helpers
  - service.go: Binds these functions to an EntrySource
*/
package insights

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateEntries rejects malformed records up front. It does not
// skip-and-continue: one bad record fails the whole computation.
func ValidateEntries(entries []TimeEntry) error {
	for _, e := range entries {
		if e.DurationSeconds < 0 {
			return &InvalidEntryError{
				EntryID:         e.ID,
				DurationSeconds: e.DurationSeconds,
				Reason:          "negative duration",
			}
		}
	}
	return nil
}

// =============================================================================
// FLAT ROLLUPS
// =============================================================================

// ByClient groups entries by their (project-derived) client. Entries without
// a client fall into the single "No Client" bucket.
func ByClient(entries []TimeEntry) ([]ClientRollup, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	type acc struct {
		name    string
		seconds int64
		count   int
	}
	groups := make(map[GroupKey]*acc)
	var order []GroupKey

	for _, e := range entries {
		g, ok := groups[e.Client]
		if !ok {
			g = &acc{name: bucketName(e.Client, e.ClientName, NoClientName)}
			groups[e.Client] = g
			order = append(order, e.Client)
		}
		g.seconds += e.DurationSeconds
		g.count++
	}

	rows := make([]ClientRollup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rows = append(rows, ClientRollup{
			Key:        key,
			ClientName: g.name,
			TotalHours: hoursFromSeconds(g.seconds),
			EntryCount: g.count,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	return rows, nil
}

// ByProject groups entries by project; unassigned entries collapse into the
// "No Project" bucket. Each row carries its resolved client name. A non-nil
// client filter drops entries for other clients before grouping.
func ByProject(entries []TimeEntry, client *ClientID) ([]ProjectRollup, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	type acc struct {
		name       string
		clientName string
		seconds    int64
		count      int
	}
	groups := make(map[GroupKey]*acc)
	var order []GroupKey

	for _, e := range entries {
		if client != nil && !matchesClient(e, *client) {
			continue
		}
		g, ok := groups[e.Project]
		if !ok {
			g = &acc{
				name:       bucketName(e.Project, e.ProjectName, NoProjectName),
				clientName: bucketName(e.Client, e.ClientName, NoClientName),
			}
			groups[e.Project] = g
			order = append(order, e.Project)
		}
		g.seconds += e.DurationSeconds
		g.count++
	}

	rows := make([]ProjectRollup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rows = append(rows, ProjectRollup{
			Key:         key,
			ProjectName: g.name,
			ClientName:  g.clientName,
			TotalHours:  hoursFromSeconds(g.seconds),
			EntryCount:  g.count,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	return rows, nil
}

// ByUser groups entries by user. Every entry has a user, so there is no
// sentinel bucket here.
func ByUser(entries []TimeEntry) ([]UserRollup, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	type acc struct {
		name    string
		seconds int64
		count   int
	}
	groups := make(map[UserID]*acc)
	var order []UserID

	for _, e := range entries {
		g, ok := groups[e.UserID]
		if !ok {
			g = &acc{name: e.UserName}
			groups[e.UserID] = g
			order = append(order, e.UserID)
		}
		g.seconds += e.DurationSeconds
		g.count++
	}

	rows := make([]UserRollup, 0, len(order))
	for _, id := range order {
		g := groups[id]
		rows = append(rows, UserRollup{
			UserID:     id,
			UserName:   g.name,
			TotalHours: hoursFromSeconds(g.seconds),
			EntryCount: g.count,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	return rows, nil
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summarize computes global counts for a period. Distinct project and client
// counts only consider assigned links - the sentinel buckets do not count.
func Summarize(entries []TimeEntry) (Summary, error) {
	if err := ValidateEntries(entries); err != nil {
		return Summary{}, err
	}

	users := make(map[UserID]struct{})
	projects := make(map[string]struct{})
	clients := make(map[string]struct{})
	var seconds int64

	for _, e := range entries {
		users[e.UserID] = struct{}{}
		if e.Project.Assigned {
			projects[e.Project.ID] = struct{}{}
		}
		if e.Client.Assigned {
			clients[e.Client.ID] = struct{}{}
		}
		seconds += e.DurationSeconds
	}

	return Summary{
		TotalUsers:    len(users),
		TotalProjects: len(projects),
		TotalClients:  len(clients),
		TotalHours:    hoursFromSeconds(seconds),
		TotalEntries:  len(entries),
	}, nil
}

// =============================================================================
// NESTED ROLLUP - project -> users
// =============================================================================

// ProjectsWithUsers builds the two-level rollup: entries grouped by project,
// then by user within each project. Users within a project are ordered by
// raw seconds descending. Projects are assembled in (client name, project
// name) ascending order for grouping stability, then re-sorted descending by
// TotalHours; the stable sort keeps the ascending order among ties.
func ProjectsWithUsers(entries []TimeEntry) ([]ProjectWithUsers, error) {
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	type userAcc struct {
		name    string
		seconds int64
		count   int
	}
	type projAcc struct {
		name       string
		client     GroupKey
		clientName string
		users      map[UserID]*userAcc
		userOrder  []UserID
	}
	groups := make(map[GroupKey]*projAcc)
	var order []GroupKey

	for _, e := range entries {
		p, ok := groups[e.Project]
		if !ok {
			p = &projAcc{
				name:       bucketName(e.Project, e.ProjectName, NoProjectName),
				client:     e.Client,
				clientName: bucketName(e.Client, e.ClientName, NoClientName),
				users:      make(map[UserID]*userAcc),
			}
			groups[e.Project] = p
			order = append(order, e.Project)
		}
		u, ok := p.users[e.UserID]
		if !ok {
			u = &userAcc{name: e.UserName}
			p.users[e.UserID] = u
			p.userOrder = append(p.userOrder, e.UserID)
		}
		u.seconds += e.DurationSeconds
		u.count++
	}

	rows := make([]ProjectWithUsers, 0, len(order))
	for _, key := range order {
		p := groups[key]

		sort.SliceStable(p.userOrder, func(i, j int) bool {
			return p.users[p.userOrder[i]].seconds > p.users[p.userOrder[j]].seconds
		})

		// Project total = re-rounded sum of the already-rounded per-user
		// hours. Kept bit-for-bit compatible with the displayed figures.
		total := decimal.Zero
		users := make([]ProjectUserHours, 0, len(p.userOrder))
		for _, id := range p.userOrder {
			u := p.users[id]
			h := decimalHours(u.seconds)
			total = total.Add(h)
			hf, _ := h.Float64()
			users = append(users, ProjectUserHours{
				UserID:     id,
				UserName:   u.name,
				Hours:      hf,
				EntryCount: u.count,
			})
		}
		totalHours, _ := total.Round(2).Float64()

		rows = append(rows, ProjectWithUsers{
			Key:         key,
			ProjectName: p.name,
			Client:      p.client,
			ClientName:  p.clientName,
			TotalHours:  totalHours,
			Users:       users,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ClientName != rows[j].ClientName {
			return rows[i].ClientName < rows[j].ClientName
		}
		return rows[i].ProjectName < rows[j].ProjectName
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })

	return rows, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func bucketName(key GroupKey, name, sentinel string) string {
	if key.Assigned {
		return name
	}
	return sentinel
}

func matchesClient(e TimeEntry, id ClientID) bool {
	return e.Client.Assigned && e.Client.ID == string(id)
}
