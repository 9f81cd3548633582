package travelapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func decode(t *testing.T, cat Category, doc string) *Insight {
	t.Helper()
	in, err := DecodeInsight(cat, "Lisbon", json.RawMessage(doc))
	if err != nil {
		t.Fatalf("DecodeInsight(%s): %v", cat, err)
	}
	return in
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory(" Safety "); err != nil || c != CategorySafety {
		t.Errorf("ParseCategory(Safety) = %q, %v", c, err)
	}
	if _, err := ParseCategory("weather"); err == nil {
		t.Error("ParseCategory accepted unknown category")
	}
}

func TestDecodeInsight_Unavailable(t *testing.T) {
	for _, doc := range []string{``, `null`, `"text"`, `{"error":"Failed to parse AI response","raw":"..."}`} {
		_, err := DecodeInsight(CategoryCrowd, "Lisbon", json.RawMessage(doc))
		if !errors.Is(err, ErrInsightUnavailable) {
			t.Errorf("%q: err = %v, want ErrInsightUnavailable", doc, err)
		}
	}
}

func TestSafetyDefaults(t *testing.T) {
	in := decode(t, CategorySafety, `{"advisories":["Watch for trams"]}`)
	s := in.Safety
	if s.Score != DefaultSafetyScore || s.Status != DefaultSafetyStatus || s.Emergency != DefaultEmergencyNumber {
		t.Errorf("defaults not applied: %+v", s)
	}
	if len(s.Advisories) != 2 || s.Advisories[0] != "Watch for trams" {
		t.Errorf("advisories = %q", s.Advisories)
	}

	in = decode(t, CategorySafety, `{"score":"92%","status":"Very Safe","emergency":112}`)
	if in.Safety.Score != 92 || in.Safety.Emergency != "112" {
		t.Errorf("loose fields = %+v", in.Safety)
	}
}

func TestBudgetDefaultsAndLooseFields(t *testing.T) {
	in := decode(t, CategoryBudget, `{}`)
	b := in.Budget
	if len(b.SavingsStrategies) != 3 || len(b.HiddenDeals) != 2 {
		t.Errorf("default tips/deals = %d/%d", len(b.SavingsStrategies), len(b.HiddenDeals))
	}
	if b.BudgetAnalysis != "Real-time financial analysis for your trip to Lisbon" {
		t.Errorf("BudgetAnalysis = %q", b.BudgetAnalysis)
	}
	if b.CostIndex.Summary() != DefaultCostIndex {
		t.Errorf("CostIndex = %q", b.CostIndex.Summary())
	}

	in = decode(t, CategoryBudget, `{
		"saving_tips": ["Walk"],
		"cost_index": {"Food":"Low","Hotels":"High","transport":"Mid"},
		"suggested_split": {"Accommodation":"40%","Food":25,"Transport":"x","Activities":20},
		"typical_expenses": ["Coffee", {"item":"Tram ride","price":3}, {"title":""}]
	}`)
	b = in.Budget
	if len(b.SavingsStrategies) != 1 || b.SavingsStrategies[0] != "Walk" {
		t.Errorf("legacy saving_tips not folded: %q", b.SavingsStrategies)
	}
	if got := b.CostIndex.Summary(); got != "food: Low, hotels: High, transport: Mid" {
		t.Errorf("CostIndex.Summary = %q", got)
	}
	split := b.Split()
	if split["Accommodation"] != 40 || split["Food"] != 25 || split["Activities"] != 20 {
		t.Errorf("split = %v", split)
	}
	if _, ok := split["Transport"]; ok {
		t.Error("unparseable split entry kept")
	}
	if len(b.TypicalExpenses) != 2 {
		t.Fatalf("expenses = %+v", b.TypicalExpenses)
	}
	if b.TypicalExpenses[0].CostEstimate != "Market Avg" || b.TypicalExpenses[1].Title != "Tram ride" || b.TypicalExpenses[1].CostEstimate != "3" {
		t.Errorf("expenses = %+v", b.TypicalExpenses)
	}
}

func TestCrowdNormalize(t *testing.T) {
	in := decode(t, CategoryCrowd, `{
		"hourly_forecast":[{"time":"8AM","density":20},{"time":"12PM","density":"140"},{"time":"4PM","density":60}],
		"major_spots":[{"name":"Belem Tower","status":"High","density":85,"wait_time":"25 mins"},{"name":" "}],
		"advice":"Go early"
	}`)
	c := in.Crowd
	if c.HourlyForecast[1].Density != 100 {
		t.Errorf("density not clamped: %v", c.HourlyForecast[1].Density)
	}
	if len(c.MajorSpots) != 1 || c.MajorSpots[0].WaitTime != 25 {
		t.Errorf("spots = %+v", c.MajorSpots)
	}
	peak, ok := c.PeakHour()
	if !ok || peak.Time != "12PM" {
		t.Errorf("PeakHour = %+v, %v", peak, ok)
	}
}

func TestSustainabilityAndReviews(t *testing.T) {
	in := decode(t, CategorySustainability, `{
		"footprint_data":[{"name":"Flights","value":420},{"name":"Hotel","value":"35 kg"},{"name":"","value":9}],
		"eco_swaps":[{"original":"Taxi","swap":"Metro","co2_saved":4,"financial_save":12}]
	}`)
	if got := in.Sustainability.TotalFootprint(); got != 455 {
		t.Errorf("TotalFootprint = %v, want 455", got)
	}
	if in.Sustainability.EcoSwaps[0].FinancialSave != "12" {
		t.Errorf("FinancialSave = %q", in.Sustainability.EcoSwaps[0].FinancialSave)
	}

	in = decode(t, CategoryReviews, `{"trust_score":"4.6/5","reviews":[{"rating":9,"text":"Great"}]}`)
	r := in.Reviews
	if r.TrustScore != 4.6 {
		t.Errorf("TrustScore = %v", r.TrustScore)
	}
	if r.Reviews[0].Rating != 5 || r.Reviews[0].Sentiment != DefaultSentiment || r.Reviews[0].Author != "Anonymous" {
		t.Errorf("review = %+v", r.Reviews[0])
	}
}

func TestRequestFor(t *testing.T) {
	var acts []model.Activity
	for i := 0; i < 14; i++ {
		acts = append(acts, model.Activity{Title: string(rune('A' + i))})
	}
	acts = append([]model.Activity{{Title: ""}}, acts...)
	trip := model.Trip{
		Destination: "Hampi",
		TravelStyle: []string{"History"},
		Itinerary:   model.Itinerary{Days: []model.Day{{Activities: acts}}},
	}

	if req := RequestFor(CategoryReviews, trip); len(req.Context) != 10 || req.Context[0] != "A" {
		t.Errorf("reviews context = %q", req.Context)
	}
	if req := RequestFor(CategoryBudget, trip); len(req.Context) != 1 || req.Context[0] != "History" {
		t.Errorf("budget context = %q", req.Context)
	}
	if req := RequestFor(CategoryCrowd, trip); req.Context != nil {
		t.Errorf("crowd context = %q, want none", req.Context)
	}
}

func TestClient_Insight(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/insight" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"insight":{"score":70,"status":"Exercise Caution"}}`)
	})
	in, err := c.Insight(context.Background(), InsightRequest{Destination: "Lisbon", Category: CategorySafety})
	if err != nil {
		t.Fatal(err)
	}
	if in.Safety == nil || in.Safety.Score != 70 || in.Category != CategorySafety {
		t.Errorf("insight = %+v", in)
	}
}
