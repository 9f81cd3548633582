package pipeline

import (
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// itinerary builds a single-day itinerary from (type, cost) pairs.
func itinerary(pairs ...string) model.Itinerary {
	day := model.Day{Day: 1}
	for i := 0; i+1 < len(pairs); i += 2 {
		day.Activities = append(day.Activities, model.Activity{
			Title:        "item",
			Type:         pairs[i],
			CostEstimate: pairs[i+1],
		})
	}
	return model.Itinerary{Days: []model.Day{day}}
}

func assertCategories(t *testing.T, got model.CategoryTotals, want model.CategoryTotals) {
	t.Helper()
	for _, cat := range model.Categories {
		if !approx(got.Get(cat), want.Get(cat)) {
			t.Errorf("%s = %.2f, want %.2f", cat, got.Get(cat), want.Get(cat))
		}
	}
}

func TestAggregateCategories_EmptyUsesBaseline(t *testing.T) {
	got := AggregateCategories(model.Itinerary{}, 10000)
	assertCategories(t, got, model.CategoryTotals{
		Food:       2000,
		Hotels:     4000,
		Transit:    1500,
		Activities: 2000,
		Other:      500,
	})
}

func TestAggregateCategories_AllZeroCostsUseBaseline(t *testing.T) {
	it := itinerary(
		model.TypeFood, "Free",
		model.TypeHotel, "",
		model.TypeTransport, "included",
		model.TypeActivity, "₹0",
	)
	got := AggregateCategories(it, 8000)
	assertCategories(t, got, model.CategoryTotals{
		Food:       1600,
		Hotels:     3200,
		Transit:    1200,
		Activities: 1600,
		Other:      400,
	})
}

func TestAggregateCategories_DollarFoodClampsOther(t *testing.T) {
	it := itinerary(model.TypeFood, "$20")

	got := AggregateCategories(it, 5000)
	assertCategories(t, got, model.CategoryTotals{
		Food:       1600,
		Hotels:     2000,
		Transit:    750,
		Activities: 1000,
		Other:      250,
	})

	bd := Analyze(model.Trip{Budget: model.Budget{Total: 5000}, Itinerary: it}, Options{})
	if !bd.Overspent {
		t.Error("Overspent = false, want true when other is clamped")
	}
}

func TestAggregateCategories_Routing(t *testing.T) {
	it := itinerary(
		model.TypeFood, "₹300",
		model.TypeFood, "₹200",
		model.TypeActivity, "₹1000",
		model.TypeHotel, "₹5000",
		model.TypeTransport, "₹700",
		model.TypeBreak, "₹100",
		"", "₹50",
		"shopping", "₹150",
	)
	got := AggregateCategories(it, 20000)
	assertCategories(t, got, model.CategoryTotals{
		Food:       500,
		Activities: 1000,
		Hotels:     5000,
		Transit:    700,
		Other:      20000 - (500 + 1000 + 5000 + 700),
	})
}

func TestAggregateCategories_NonNegative(t *testing.T) {
	cases := []struct {
		name  string
		it    model.Itinerary
		total float64
	}{
		{"empty zero total", model.Itinerary{}, 0},
		{"negative total", itinerary(model.TypeHotel, "₹9000"), -100},
		{"huge spend", itinerary(model.TypeHotel, "₹900000", model.TypeFood, "$9000"), 1000},
		{"garbage costs", itinerary("", "???", model.TypeFood, "--"), 1200},
	}
	for _, tc := range cases {
		got := AggregateCategories(tc.it, tc.total)
		for _, cat := range model.Categories {
			v := got.Get(cat)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: %s = %v, want finite non-negative", tc.name, cat, v)
			}
		}
	}
}

func TestAggregateDays(t *testing.T) {
	it := model.Itinerary{Days: []model.Day{
		{Day: 1, Activities: []model.Activity{
			{CostEstimate: "₹100"}, {CostEstimate: "$1"},
		}},
		{Day: 2},
		{Day: 3, Activities: []model.Activity{{CostEstimate: "₹2,500"}}},
	}}

	days := AggregateDays(it)
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	want := []float64{180, 0, 2500}
	for i, d := range days {
		if d.Label != fmt.Sprintf("Day %d", i+1) {
			t.Errorf("days[%d].Label = %q", i, d.Label)
		}
		if !approx(d.Amount, want[i]) {
			t.Errorf("days[%d].Amount = %.2f, want %.2f", i, d.Amount, want[i])
		}
	}
	if got := EstimatedSpend(days); !approx(got, 2680) {
		t.Errorf("EstimatedSpend = %.2f, want 2680", got)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	trip := model.Trip{
		ID:          "t1",
		Destination: "Goa",
		Budget:      model.Budget{Total: 30000},
		Itinerary: itinerary(
			model.TypeHotel, "₹12000",
			model.TypeFood, "$15",
			model.TypeActivity, "₹2500",
		),
	}
	a := Analyze(trip, Options{})
	b := Analyze(trip, Options{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Analyze not idempotent:\n%+v\n%+v", a, b)
	}
	if a.Currency != model.DefaultCurrency {
		t.Errorf("Currency = %q, want default %q", a.Currency, model.DefaultCurrency)
	}
	if !approx(a.Metrics.EstimatedSpend, 12000+1200+2500) {
		t.Errorf("EstimatedSpend = %.2f, want 15700", a.Metrics.EstimatedSpend)
	}
}

func TestAnalyze_EffectiveTotalFallback(t *testing.T) {
	bd := Analyze(model.Trip{DurationDays: 4}, Options{})
	if bd.Metrics.Total != 20000 {
		t.Errorf("Total = %.0f, want 20000 (4 days * 5000)", bd.Metrics.Total)
	}

	bd = Analyze(model.Trip{}, Options{})
	if bd.Metrics.Total != 5000 {
		t.Errorf("Total = %.0f, want 5000", bd.Metrics.Total)
	}
}

func TestAnalyze_CustomUSDRate(t *testing.T) {
	trip := model.Trip{Budget: model.Budget{Total: 10000}, Itinerary: itinerary(model.TypeFood, "$10")}
	bd := Analyze(trip, Options{USDRate: 90})
	if !approx(bd.Categories.Food, 900) {
		t.Errorf("Food = %.2f, want 900 at rate 90", bd.Categories.Food)
	}
}

func TestAnalyze_NonFiniteUSDRateStaysFinite(t *testing.T) {
	trip := model.Trip{Budget: model.Budget{Total: 5000}, Itinerary: itinerary(model.TypeFood, "$20")}
	for _, rate := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		bd := Analyze(trip, Options{USDRate: rate})
		c, m := bd.Categories, bd.Metrics
		for name, v := range map[string]float64{
			"food": c.Food, "activities": c.Activities, "hotels": c.Hotels,
			"transit": c.Transit, "other": c.Other,
			"spent%": m.SpentPercentage, "remaining": m.Remaining,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("rate %v: %s = %v, want finite", rate, name, v)
			}
		}
		if !approx(c.Food, 1600) {
			t.Errorf("rate %v: Food = %.2f, want 1600 at the default rate", rate, c.Food)
		}
		if m.SpentPercentage < 0 || m.SpentPercentage > 100 {
			t.Errorf("rate %v: SpentPercentage = %v, want within [0,100]", rate, m.SpentPercentage)
		}
	}
}

func TestAnalyzeAll_PreservesOrder(t *testing.T) {
	trips := []model.Trip{
		{ID: "a", Budget: model.Budget{Total: 1000}, Itinerary: itinerary(model.TypeHotel, "₹950")},
		{ID: "b", Budget: model.Budget{Total: 1000}},
		{ID: "c", Budget: model.Budget{Total: 1000}, Itinerary: itinerary(model.TypeFood, "$5")},
	}

	var calls atomic.Int64
	result := AnalyzeAll(trips, Options{}, func(current, total int) {
		calls.Add(1)
		if total != 3 {
			t.Errorf("progress total = %d, want 3", total)
		}
	})
	if n := calls.Load(); n != 3 {
		t.Errorf("progress called %d times, want 3", n)
	}
	if len(result.Breakdowns) != 3 {
		t.Fatalf("len(Breakdowns) = %d, want 3", len(result.Breakdowns))
	}
	for i, want := range []string{"a", "b", "c"} {
		if result.Breakdowns[i].TripID != want {
			t.Errorf("Breakdowns[%d].TripID = %q, want %q", i, result.Breakdowns[i].TripID, want)
		}
	}
	if result.Critical != 1 {
		t.Errorf("Critical = %d, want 1", result.Critical)
	}
	if result.Activities != 2 {
		t.Errorf("Activities = %d, want 2", result.Activities)
	}
}

func TestAnalyzeAll_Empty(t *testing.T) {
	result := AnalyzeAll(nil, Options{}, nil)
	if result.TotalTrips != 0 || len(result.Breakdowns) != 0 {
		t.Fatalf("unexpected result for no trips: %+v", result)
	}
}
