/*
range.go - Period resolution and navigation

PURPOSE:
  Converts a coarse period selector (week/month/quarter/year/custom) plus a
  reference date into a concrete half-open [start, end) interval, supports
  stepping forward/backward by one period unit, and renders a display label.

INTERVAL CONVENTION:
  Every DateRange is half-open: Start is inclusive, End is exclusive. A
  custom range is entered as an inclusive end day and converted to the
  exclusive boundary at the start of the next day.

ANCHORING:
  Boundaries are anchored to the reference date, never to "today": resolving
  the same reference twice yields the identical range. Weeks start on Sunday.
  Quarters are calendar Q1-Q4, derived by integer month division.

SEE ALSO:
  - service.go: Resolves RangeQuery values through these functions
*/
package insights

import (
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// RANGE KIND
// =============================================================================

type RangeKind string

const (
	RangeWeek    RangeKind = "week"
	RangeMonth   RangeKind = "month"
	RangeQuarter RangeKind = "quarter"
	RangeYear    RangeKind = "year"
	RangeCustom  RangeKind = "custom"
)

// DateLayout is the wire format for explicit date bounds.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE RANGE - Half-open [Start, End)
// =============================================================================

type DateRange struct {
	Start time.Time // inclusive
	End   time.Time // exclusive
}

// Contains reports whether t falls inside the half-open interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r DateRange) String() string {
	return "[" + r.Start.Format(DateLayout) + ", " + r.End.Format(DateLayout) + ")"
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve turns a period kind and reference date into a half-open range.
// The reference's clock time is discarded; boundaries land on day starts in
// UTC. An unrecognized kind resolves as a month.
func Resolve(kind RangeKind, reference time.Time) DateRange {
	ref := startOfDay(reference)

	switch kind {
	case RangeWeek:
		// Most recent Sunday at or before the reference.
		start := ref.AddDate(0, 0, -int(ref.Weekday()))
		return DateRange{Start: start, End: start.AddDate(0, 0, 7)}

	case RangeQuarter:
		quarter := (int(ref.Month()) - 1) / 3
		start := time.Date(ref.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 3, 0)}

	case RangeYear:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(1, 0, 0)}

	default: // month, and any unrecognized kind
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// ResolveCustom builds a range from explicit YYYY-MM-DD bounds. The end day
// is inclusive: the returned End is the start of the following day.
func ResolveCustom(startDate, endDate string) (DateRange, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return DateRange{}, &InvalidRangeError{Field: "start_date", Value: startDate, Reason: "not a YYYY-MM-DD date"}
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return DateRange{}, &InvalidRangeError{Field: "end_date", Value: endDate, Reason: "not a YYYY-MM-DD date"}
	}
	if start.After(end) {
		return DateRange{}, &InvalidRangeError{
			Field:  "bounds",
			Value:  startDate + ".." + endDate,
			Reason: "start date after end date",
		}
	}
	return DateRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// Navigate shifts the range by one period unit in the given direction
// (-1 or +1) and re-resolves from the shifted start. Re-deriving the end
// absorbs month-length irregularities (Jan 31 -> Feb). Custom ranges are not
// navigable and come back unchanged.
func Navigate(kind RangeKind, current DateRange, direction int) DateRange {
	if direction == 0 || kind == RangeCustom {
		return current
	}

	start := startOfDay(current.Start)
	var newStart time.Time

	switch kind {
	case RangeWeek:
		newStart = start.AddDate(0, 0, direction*7)
	case RangeQuarter:
		newStart = firstOfMonth(start).AddDate(0, direction*3, 0)
	case RangeYear:
		newStart = time.Date(start.Year()+direction, time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // month
		newStart = firstOfMonth(start).AddDate(0, direction, 0)
	}

	return Resolve(kind, newStart)
}

// =============================================================================
// DISPLAY LABELS
// =============================================================================

// DisplayLabel renders a human label for the range. The exclusive End is
// shown as its inclusive last day.
func DisplayLabel(kind RangeKind, r DateRange) string {
	last := r.End.AddDate(0, 0, -1)

	switch kind {
	case RangeWeek:
		return fmt.Sprintf("%s %d - %s %d, %d",
			r.Start.Format("Jan"), r.Start.Day(),
			last.Format("Jan"), last.Day(), last.Year())
	case RangeMonth:
		return r.Start.Format("Jan 2006")
	case RangeQuarter:
		quarter := (int(r.Start.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, r.Start.Year())
	case RangeYear:
		return strconv.Itoa(r.Start.Year())
	default: // custom
		return r.Start.Format(DateLayout) + " - " + last.Format(DateLayout)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
