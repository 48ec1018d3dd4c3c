package insights_test

import (
	"testing"

	"github.com/sybrisoft/toggl-insights/insights"
)

func TestFulfillment(t *testing.T) {
	// GIVEN: Worked hours and a configured limit
	// WHEN: Computing fulfillment
	// THEN: Percentage to 1 decimal; nil when no limit is set

	if got := insights.Fulfillment(100, 0); got != nil {
		t.Errorf("expected nil for zero limit, got %v", *got)
	}
	if got := insights.Fulfillment(100, -5); got != nil {
		t.Errorf("expected nil for negative limit, got %v", *got)
	}

	if got := insights.Fulfillment(100, 200); got == nil || *got != 50.0 {
		t.Errorf("expected 50.0, got %v", got)
	}
	if got := insights.Fulfillment(250, 200); got == nil || *got != 125.0 {
		t.Errorf("expected 125.0, got %v", got)
	}
	if got := insights.Fulfillment(100, 3); got == nil || *got != 3333.3 {
		t.Errorf("expected 3333.3, got %v", got)
	}
	if got := insights.Fulfillment(0, 200); got == nil || *got != 0.0 {
		t.Errorf("expected 0.0, got %v", got)
	}
}

func TestBandFor_InclusiveLowerBounds(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	cases := []struct {
		in   *float64
		want insights.FulfillmentBand
	}{
		{nil, insights.BandUnset},
		{pct(125), insights.BandExcellent},
		{pct(100), insights.BandExcellent},
		{pct(99.9), insights.BandGood},
		{pct(80), insights.BandGood},
		{pct(79.9), insights.BandWarning},
		{pct(50), insights.BandWarning},
		{pct(49.9), insights.BandLow},
		{pct(0), insights.BandLow},
	}

	for _, tc := range cases {
		if got := insights.BandFor(tc.in); got != tc.want {
			t.Errorf("BandFor(%v): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestShareOfTotal(t *testing.T) {
	all := []float64{25, 75}
	if got := insights.ShareOfTotal(25, all); got != 25.0 {
		t.Errorf("expected 25.0, got %v", got)
	}

	thirds := []float64{1, 1, 1}
	if got := insights.ShareOfTotal(1, thirds); got != 33.3 {
		t.Errorf("expected 33.3, got %v", got)
	}

	if got := insights.ShareOfTotal(10, nil); got != 0 {
		t.Errorf("expected 0 for empty total, got %v", got)
	}
	if got := insights.ShareOfTotal(0, []float64{0, 0}); got != 0 {
		t.Errorf("expected 0 for zero total, got %v", got)
	}
}

func TestBudgetBook_Limit(t *testing.T) {
	b := insights.DefaultBudgets()

	if got := b.Limit("Payout"); got != 240 {
		t.Errorf("expected 240, got %v", got)
	}
	if got := b.Limit("Nonexistent"); got != 0 {
		t.Errorf("expected 0 for unknown client, got %v", got)
	}
}
