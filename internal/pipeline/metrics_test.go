package pipeline

import (
	"strings"
	"testing"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name      string
		spend     float64
		total     float64
		wantPct   float64
		wantRem   float64
		wantLevel model.HealthLevel
	}{
		{"under", 4000, 10000, 40, 6000, model.HealthOK},
		{"at warning edge", 8000, 10000, 80, 2000, model.HealthOK},
		{"warning", 8500, 10000, 85, 1500, model.HealthWarning},
		{"at critical edge", 9000, 10000, 90, 1000, model.HealthWarning},
		{"critical", 9500, 10000, 95, 500, model.HealthCritical},
		{"over", 12000, 10000, 100, 0, model.HealthCritical},
		{"zero total", 300, 0, 0, 0, model.HealthOK},
		{"nothing spent", 0, 10000, 0, 10000, model.HealthOK},
	}
	for _, tt := range tests {
		m := ComputeMetrics(tt.spend, tt.total)
		if !approx(m.SpentPercentage, tt.wantPct) {
			t.Errorf("%s: SpentPercentage = %.2f, want %.2f", tt.name, m.SpentPercentage, tt.wantPct)
		}
		if !approx(m.Remaining, tt.wantRem) {
			t.Errorf("%s: Remaining = %.2f, want %.2f", tt.name, m.Remaining, tt.wantRem)
		}
		if m.Health != tt.wantLevel {
			t.Errorf("%s: Health = %s, want %s", tt.name, m.Health, tt.wantLevel)
		}
	}
}

func TestComputeMetrics_Bounds(t *testing.T) {
	for _, spend := range []float64{0, 1, 4999, 5000, 5001, 1e9} {
		for _, total := range []float64{-10, 0, 1, 5000, 1e6} {
			m := ComputeMetrics(spend, total)
			if m.SpentPercentage < 0 || m.SpentPercentage > 100 {
				t.Errorf("spend=%v total=%v: SpentPercentage = %v out of [0,100]", spend, total, m.SpentPercentage)
			}
			if m.Remaining < 0 {
				t.Errorf("spend=%v total=%v: Remaining = %v, want >= 0", spend, total, m.Remaining)
			}
		}
	}
}

func TestComputeMetrics_HealthFactorUnclamped(t *testing.T) {
	m := ComputeMetrics(15000, 10000)
	if !approx(m.HealthFactor, 1.5) {
		t.Errorf("HealthFactor = %.2f, want 1.5", m.HealthFactor)
	}
}

func TestApplySuggestedSplit(t *testing.T) {
	base := model.CategoryTotals{Food: 1, Activities: 2, Hotels: 3, Transit: 4, Other: 5}

	got := ApplySuggestedSplit(base, 10000, map[string]float64{
		"Accommodation": 50,
		"Transport":     10,
		"Food":          0,
	})
	if got.Hotels != 5000 || got.Transit != 1000 {
		t.Errorf("overlay = %+v, want Hotels 5000 Transit 1000", got)
	}
	if got.Food != 1 || got.Activities != 2 || got.Other != 5 {
		t.Errorf("unset buckets changed: %+v", got)
	}

	if got := ApplySuggestedSplit(base, 10000, nil); got != base {
		t.Errorf("nil split changed totals: %+v", got)
	}
}

func TestSelectTip(t *testing.T) {
	tests := []struct {
		name      string
		style     []string
		factor    float64
		wantTitle string
	}{
		{"critical wins over style", []string{"Food"}, 0.95, "Budget Alert"},
		{"food lover", []string{"Culture", "food"}, 0.5, "Taste & Save"},
		{"nature", []string{"Nature"}, 0.5, "Eco Explorer"},
		{"adventure", []string{"Adventure"}, 0.85, "Eco Explorer"},
		{"default", nil, 0.2, "Pro Smart Tip"},
	}
	for _, tt := range tests {
		trip := model.Trip{Destination: "Kyoto", TravelStyle: tt.style}
		tip := SelectTip(trip, ComputeMetrics(tt.factor*1000, 1000))
		if tip.Title != tt.wantTitle {
			t.Errorf("%s: Title = %q, want %q", tt.name, tip.Title, tt.wantTitle)
		}
		if !strings.Contains(tip.Text, "Kyoto") {
			t.Errorf("%s: Text %q does not mention destination", tt.name, tip.Text)
		}
	}
}
