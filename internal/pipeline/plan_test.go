package pipeline

import (
	"testing"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func TestParseBudgetInput(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30000", 30000},
		{"Medium (₹50k)", 50000},
		{"50K", 50000},
		{"10 k", 10000},
		{"2L", 200000},
		{"1.5 lakh", 1500000},
		{"", 2000},
		{"low", 2000},
		{"₹0", 2000},
	}
	for _, tt := range tests {
		if got := ParseBudgetInput(tt.in); got != tt.want {
			t.Errorf("ParseBudgetInput(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFallbackItinerary(t *testing.T) {
	it := FallbackItinerary("Jaipur", 3, "")
	if len(it.Days) != 3 {
		t.Fatalf("len(Days) = %d, want 3", len(it.Days))
	}
	for i, d := range it.Days {
		if d.Day != i+1 {
			t.Errorf("Days[%d].Day = %d, want %d", i, d.Day, i+1)
		}
		if len(d.Activities) != 1 {
			t.Fatalf("Days[%d] has %d activities, want 1", i, len(d.Activities))
		}
		act := d.Activities[0]
		if act.Type != model.TypeActivity || act.CostEstimate != "₹500" {
			t.Errorf("Days[%d] activity = %+v", i, act)
		}
	}
	if it.Summary.Title != "Trip to Jaipur" {
		t.Errorf("Summary.Title = %q", it.Summary.Title)
	}
}

func TestFallbackItinerary_AtLeastOneDay(t *testing.T) {
	for _, n := range []int{0, -4} {
		if got := len(FallbackItinerary("Pune", n, "Relaxed").Days); got != 1 {
			t.Errorf("days=%d: got %d days, want 1", n, got)
		}
	}
}

func TestFallbackItinerary_Deterministic(t *testing.T) {
	a := Analyze(model.Trip{DurationDays: 2, Itinerary: FallbackItinerary("Ooty", 2, "")}, Options{})
	b := Analyze(model.Trip{DurationDays: 2, Itinerary: FallbackItinerary("Ooty", 2, "")}, Options{})
	if a.Metrics != b.Metrics {
		t.Fatalf("fallback analysis differs: %+v vs %+v", a.Metrics, b.Metrics)
	}
	if !approx(a.Metrics.EstimatedSpend, 1000) {
		t.Errorf("EstimatedSpend = %.0f, want 1000", a.Metrics.EstimatedSpend)
	}
}
