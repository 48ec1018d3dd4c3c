/*
service.go - The reporting query surface

PURPOSE:
  Binds the pure range/rollup functions to an EntrySource, exposing exactly
  the operations the transport layer serves: Summary, ByClient, ByProject,
  ByUser, ProjectsWithUsers, ListClients, plus the combined Overview.

REQUEST SHAPE:
  Every query takes a RangeQuery {Range, StartDate?, EndDate?}. Explicit
  start/end bounds take precedence over the range kind; otherwise the kind is
  resolved against the reference date (defaulting to now).

CONCURRENCY:
  Rollups are pure reads over an immutable entry snapshot, so Overview
  computes all four views in parallel with an errgroup. There is no ordering
  constraint between them.

SEE ALSO:
  - source.go: EntrySource interface
  - budget.go: Budget decoration used by ClientsWithBudgets
*/
package insights

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// RANGE QUERY
// =============================================================================

// RangeQuery is the period selector accepted by every reporting operation.
type RangeQuery struct {
	Range     RangeKind
	StartDate string // YYYY-MM-DD, optional
	EndDate   string // YYYY-MM-DD, optional

	// Reference anchors kind-based resolution. Zero means time.Now().
	Reference time.Time
}

// Kind returns the effective kind: custom when explicit bounds are supplied,
// otherwise the requested kind with unknown values normalized to month.
func (q RangeQuery) Kind() RangeKind {
	if q.StartDate != "" && q.EndDate != "" {
		return RangeCustom
	}
	switch q.Range {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return q.Range
	default:
		return RangeMonth
	}
}

// Resolve produces the concrete half-open interval for the query.
func (q RangeQuery) Resolve() (DateRange, error) {
	if q.StartDate != "" || q.EndDate != "" {
		if q.StartDate == "" || q.EndDate == "" {
			return DateRange{}, &InvalidRangeError{
				Field:  "bounds",
				Value:  q.StartDate + ".." + q.EndDate,
				Reason: "custom range needs both start and end dates",
			}
		}
		return ResolveCustom(q.StartDate, q.EndDate)
	}
	if q.Range == RangeCustom {
		return DateRange{}, &InvalidRangeError{
			Field:  "range",
			Value:  string(RangeCustom),
			Reason: "custom range needs explicit dates",
		}
	}
	ref := q.Reference
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	return Resolve(q.Kind(), ref), nil
}

// Label renders the display label for the query's resolved range.
func (q RangeQuery) Label(r DateRange) string {
	return DisplayLabel(q.Kind(), r)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service is the reporting facade handed to the transport layer.
type Service struct {
	Source EntrySource
}

func NewService(source EntrySource) *Service {
	return &Service{Source: source}
}

func (s *Service) fetch(ctx context.Context, q RangeQuery, client *ClientID) ([]TimeEntry, error) {
	r, err := q.Resolve()
	if err != nil {
		return nil, err
	}
	return s.Source.FetchEntries(ctx, r, client)
}

// Summary returns the global counts for the queried period.
func (s *Service) Summary(ctx context.Context, q RangeQuery) (Summary, error) {
	entries, err := s.fetch(ctx, q, nil)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries)
}

// ByClient returns per-client rollups for the queried period.
func (s *Service) ByClient(ctx context.Context, q RangeQuery) ([]ClientRollup, error) {
	entries, err := s.fetch(ctx, q, nil)
	if err != nil {
		return nil, err
	}
	return ByClient(entries)
}

// ByProject returns per-project rollups, optionally restricted to one
// client. The filter is pushed down to the source.
func (s *Service) ByProject(ctx context.Context, q RangeQuery, client *ClientID) ([]ProjectRollup, error) {
	entries, err := s.fetch(ctx, q, client)
	if err != nil {
		return nil, err
	}
	return ByProject(entries, nil)
}

// ByUser returns per-user rollups for the queried period.
func (s *Service) ByUser(ctx context.Context, q RangeQuery) ([]UserRollup, error) {
	entries, err := s.fetch(ctx, q, nil)
	if err != nil {
		return nil, err
	}
	return ByUser(entries)
}

// ProjectsWithUsers returns the nested project->user rollup.
func (s *Service) ProjectsWithUsers(ctx context.Context, q RangeQuery) ([]ProjectWithUsers, error) {
	entries, err := s.fetch(ctx, q, nil)
	if err != nil {
		return nil, err
	}
	return ProjectsWithUsers(entries)
}

// ListClients returns the client directory for filter dropdowns.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.Source.ListClients(ctx)
}

// =============================================================================
// OVERVIEW - all views over one snapshot
// =============================================================================

// Overview bundles the four main views computed from a single entry
// snapshot, plus the resolved range and its label.
type Overview struct {
	Range    DateRange
	Label    string
	Summary  Summary
	Clients  []ClientRollup
	Projects []ProjectRollup
	Users    []UserRollup
}

// Overview fetches the period's entries once and computes all views in
// parallel. The rollups only read the shared slice, so no locking is needed.
func (s *Service) Overview(ctx context.Context, q RangeQuery) (*Overview, error) {
	r, err := q.Resolve()
	if err != nil {
		return nil, err
	}
	entries, err := s.Source.FetchEntries(ctx, r, nil)
	if err != nil {
		return nil, err
	}

	ov := &Overview{Range: r, Label: q.Label(r)}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ov.Summary, err = Summarize(entries)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Clients, err = ByClient(entries)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Projects, err = ByProject(entries, nil)
		return err
	})
	g.Go(func() error {
		var err error
		ov.Users, err = ByUser(entries)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ov, nil
}

// =============================================================================
// BUDGET DECORATION
// =============================================================================

// ClientBudgetRollup is a ClientRollup joined with its configured budget.
type ClientBudgetRollup struct {
	ClientRollup
	LimitHours   float64
	Fulfillment  *float64
	Band         FulfillmentBand
	ShareOfTotal float64
}

// ClientsWithBudgets decorates the by-client rollup with limits,
// fulfillment percentages, bands, and each row's share of the period total.
// The budget snapshot is passed explicitly; the service holds no budget
// state of its own.
func (s *Service) ClientsWithBudgets(ctx context.Context, q RangeQuery, budgets BudgetBook) ([]ClientBudgetRollup, error) {
	rows, err := s.ByClient(ctx, q)
	if err != nil {
		return nil, err
	}

	allHours := make([]float64, len(rows))
	for i, row := range rows {
		allHours[i] = row.TotalHours
	}

	out := make([]ClientBudgetRollup, len(rows))
	for i, row := range rows {
		limit := budgets.Limit(row.ClientName)
		pct := Fulfillment(row.TotalHours, limit)
		out[i] = ClientBudgetRollup{
			ClientRollup: row,
			LimitHours:   limit,
			Fulfillment:  pct,
			Band:         BandFor(pct),
			ShareOfTotal: ShareOfTotal(row.TotalHours, allHours),
		}
	}
	return out, nil
}
