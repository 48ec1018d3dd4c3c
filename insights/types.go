/*
Package insights provides the core time-allocation reporting engine.

PURPOSE:
  This package contains the pure, deterministic logic behind the reporting
  dashboard: resolving a coarse period selector into concrete date boundaries
  (range.go) and aggregating raw time entries into roll-up views by client,
  project, and user (rollup.go). It performs no I/O; entries arrive through
  the EntrySource interface (source.go) already filtered to the requested
  interval.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeEntry: An immutable tracked-work fact (duration, user, optional
    project/client links)
  - GroupKey: A tagged grouping key - either a real id or the single
    "unassigned" sentinel bucket
  - Rollup rows: ClientRollup, ProjectRollup, UserRollup, ProjectWithUsers
  - Summary: Global counts and total hours for a period

DESIGN PRINCIPLES:
  1. Immutability: Entries are read-only facts; rollups are recomputed fully
     per query, never incrementally cached
  2. Precision: Uses decimal.Decimal for hour/percentage rounding to match
     displayed figures exactly
  3. Sentinel grouping: Entries without a project or client collapse into one
     shared bucket whose key can never collide with a real id

SEE ALSO:
  - range.go: Period resolution and navigation
  - rollup.go: Aggregation over entry slices
  - budget.go: Client budget fulfillment
*/
package insights

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type ProjectID string
type ClientID string

// GroupKey identifies a rollup bucket: either a real id (Assigned) or the
// single sentinel "unassigned" bucket. The zero value is the sentinel, and is
// distinct from every real id, including an empty one.
type GroupKey struct {
	ID       string
	Assigned bool
}

// AssignedKey returns a key for a real id.
func AssignedKey(id string) GroupKey { return GroupKey{ID: id, Assigned: true} }

// Unassigned is the sentinel bucket key for entries with no project or for
// projects with no client.
var Unassigned = GroupKey{}

// Display names for the sentinel buckets.
const (
	NoClientName  = "No Client"
	NoProjectName = "No Project"
)

// =============================================================================
// TIME ENTRY - Immutable fact from the tracking data source
// =============================================================================

// TimeEntry is a single tracked-work record. Project and client links are
// optional; the user link is always present. Names are denormalized by the
// entry source so rollups can be rendered without extra lookups.
type TimeEntry struct {
	ID              string
	Start           time.Time
	DurationSeconds int64

	UserID   UserID
	UserName string

	Project     GroupKey
	ProjectName string

	// Client is derived from the entry's project. An entry with no project,
	// or whose project has no client, carries the Unassigned sentinel.
	Client     GroupKey
	ClientName string
}

// Client is a reference entity, used by the client list endpoint and the
// by-project filter.
type Client struct {
	ID       ClientID
	Name     string
	Archived bool
}

// =============================================================================
// ROLLUP ROWS - One summary row per grouping key
// =============================================================================

type ClientRollup struct {
	Key        GroupKey
	ClientName string
	TotalHours float64
	EntryCount int
}

type ProjectRollup struct {
	Key         GroupKey
	ProjectName string
	ClientName  string
	TotalHours  float64
	EntryCount  int
}

type UserRollup struct {
	UserID     UserID
	UserName   string
	TotalHours float64
	EntryCount int
}

// Summary holds global counts for a period. All fields are zero-valued on an
// empty entry set - never absent.
type Summary struct {
	TotalUsers    int
	TotalProjects int
	TotalClients  int
	TotalHours    float64
	TotalEntries  int
}

// ProjectWithUsers is the two-level rollup: per-user hours nested under a
// project. TotalHours is the re-rounded sum of the already-rounded per-user
// hours (see rollup.go for why this compounding is intentional).
type ProjectWithUsers struct {
	Key         GroupKey
	ProjectName string
	Client      GroupKey
	ClientName  string
	TotalHours  float64
	Users       []ProjectUserHours
}

// ProjectUserHours is one user's share of a project.
type ProjectUserHours struct {
	UserID     UserID
	UserName   string
	Hours      float64
	EntryCount int
}

// =============================================================================
// ROUNDING HELPERS
// =============================================================================

var secondsPerHour = decimal.NewFromInt(3600)

// hoursFromSeconds converts a duration sum to hours rounded to 2 decimals.
func hoursFromSeconds(seconds int64) float64 {
	f, _ := decimalHours(seconds).Float64()
	return f
}

// decimalHours returns seconds/3600 rounded to 2 decimals as a decimal.
func decimalHours(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(secondsPerHour).Round(2)
}

// roundPercent rounds a ratio*100 to 1 decimal place.
func roundPercent(numerator, denominator float64) float64 {
	f, _ := decimal.NewFromFloat(numerator).
		Div(decimal.NewFromFloat(denominator)).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		Float64()
	return f
}
