package pipeline

import (
	"math"
	"strconv"
	"testing"
)

func TestParseCost(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"Free", 0},
		{"N/A", 0},
		{"₹500", 500},
		{"₹1,200", 1200},
		{"approx. 300 INR", 300},
		{"$20", 1600},
		{"USD 2.50", 250},
		{"$2.50", 250 * USDConversionRate},
		{"₹ 500 - 800", 500800},
		{"999999999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseCost(tt.in); got != tt.want {
			t.Errorf("ParseCost(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCost_DollarMultipliesDigits(t *testing.T) {
	for _, d := range []uint64{0, 1, 7, 45, 1000, 123456} {
		plain := ParseCost(strconv.FormatUint(d, 10))
		dollar := ParseCost("$" + strconv.FormatUint(d, 10))
		if dollar != plain*80 {
			t.Errorf("$%d parsed as %v, want %v", d, dollar, plain*80)
		}
	}
}

func TestParseCost_NeverNegative(t *testing.T) {
	for _, s := range []string{"-500", "₹-1", "$-3", "--", "-$"} {
		if got := ParseCost(s); got < 0 {
			t.Errorf("ParseCost(%q) = %v, want >= 0", s, got)
		}
	}
}

func TestParseCostWithRate(t *testing.T) {
	if got := ParseCostWithRate("$10", 90); got != 900 {
		t.Errorf("rate 90: got %v, want 900", got)
	}
	if got := ParseCostWithRate("$10", 0); got != 800 {
		t.Errorf("rate 0 should fall back to 80: got %v, want 800", got)
	}
	if got := ParseCostWithRate("₹10", 90); got != 10 {
		t.Errorf("rate applies only to dollar amounts: got %v, want 10", got)
	}
}

func TestParseCostWithRate_NonFiniteFallsBack(t *testing.T) {
	for _, rate := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5} {
		if got := ParseCostWithRate("$10", rate); got != 800 {
			t.Errorf("rate %v: got %v, want 800", rate, got)
		}
	}
}
