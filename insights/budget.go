package insights

// =============================================================================
// CLIENT BUDGETS - monthly hour limits and fulfillment
// =============================================================================

// BudgetBook maps a client name to its monthly hour limit. It is owned and
// persisted by the caller; the engine only reads a snapshot per call.
// A zero or missing limit means "no budget configured".
type BudgetBook map[string]float64

// DefaultBudgets is the fixed starting mapping used when no prior budget
// configuration exists.
func DefaultBudgets() BudgetBook {
	return BudgetBook{
		"Payout":    240,
		"Autocar":   70,
		"Pilex":     30,
		"Sentop":    20,
		"SybriSoft": 20,
	}
}

// Limit returns the configured limit for a client, or 0 when unset.
func (b BudgetBook) Limit(clientName string) float64 {
	return b[clientName]
}

// Fulfillment returns worked hours as a percentage of the limit, rounded to
// 1 decimal, or nil when no limit is configured (limit <= 0).
func Fulfillment(totalHours, limitHours float64) *float64 {
	if limitHours <= 0 {
		return nil
	}
	pct := roundPercent(totalHours, limitHours)
	return &pct
}

// FulfillmentBand buckets a fulfillment percentage for display. Thresholds
// are inclusive at the lower bound.
type FulfillmentBand string

const (
	BandExcellent FulfillmentBand = "excellent" // >= 100
	BandGood      FulfillmentBand = "good"      // >= 80
	BandWarning   FulfillmentBand = "warning"   // >= 50
	BandLow       FulfillmentBand = "low"       // < 50
	BandUnset     FulfillmentBand = "unset"     // no limit configured
)

// BandFor classifies a fulfillment percentage.
func BandFor(fulfillment *float64) FulfillmentBand {
	switch {
	case fulfillment == nil:
		return BandUnset
	case *fulfillment >= 100:
		return BandExcellent
	case *fulfillment >= 80:
		return BandGood
	case *fulfillment >= 50:
		return BandWarning
	default:
		return BandLow
	}
}

// ShareOfTotal returns rowHours as a percentage of the sum of all rows,
// rounded to 1 decimal, or 0 when the sum is 0.
func ShareOfTotal(rowHours float64, allRowsHours []float64) float64 {
	var total float64
	for _, h := range allRowsHours {
		total += h
	}
	if total <= 0 {
		return 0
	}
	return roundPercent(rowHours, total)
}
