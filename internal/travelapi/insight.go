package travelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// Category names an insight panel.
type Category string

// Insight categories.
const (
	CategoryBudget         Category = "budget"
	CategoryCrowd          Category = "crowd"
	CategorySafety         Category = "safety"
	CategorySustainability Category = "sustainability"
	CategoryReviews        Category = "reviews"
)

// Categories lists every insight category in panel order.
var Categories = []Category{
	CategoryBudget,
	CategoryCrowd,
	CategorySafety,
	CategorySustainability,
	CategoryReviews,
}

// ParseCategory validates a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown insight category %q (want budget, crowd, safety, sustainability or reviews)", s)
}

// InsightRequest is the body of an insight call.
type InsightRequest struct {
	Destination string   `json:"destination"`
	Category    Category `json:"category"`
	Context     []string `json:"context,omitempty"`
}

type insightEnvelope struct {
	Insight json.RawMessage `json:"insight"`
}

// HourlyDensity is one point of the crowd forecast.
type HourlyDensity struct {
	Time    string `json:"time"`
	Density Number `json:"density"`
}

// Spot is a major attraction with its live crowd level.
type Spot struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Density  Number `json:"density"`
	WaitTime Number `json:"wait_time"`
}

// CrowdInsight is the crowd intelligence panel.
type CrowdInsight struct {
	HourlyForecast []HourlyDensity `json:"hourly_forecast"`
	MajorSpots     []Spot          `json:"major_spots"`
	Advice         string          `json:"advice"`
}

// SafetyInsight is the safety intelligence panel.
type SafetyInsight struct {
	Score      Number   `json:"score"`
	Status     string   `json:"status"`
	Advisories []string `json:"advisories"`
	Emergency  Text     `json:"emergency"`
	Risks      []string `json:"risks"`
}

// BudgetInsight is the smart budget panel.
type BudgetInsight struct {
	SavingsStrategies []string          `json:"savings_strategies"`
	CostIndex         CostIndex         `json:"cost_index"`
	HiddenDeals       []string          `json:"hidden_deals"`
	BudgetAnalysis    string            `json:"budget_analysis"`
	SuggestedSplit    map[string]Number `json:"suggested_split"`
	TopPrioritySave   string            `json:"top_priority_save"`
	TypicalExpenses   []Expense         `json:"typical_expenses"`

	// Older payloads used these names.
	SavingTips []string `json:"saving_tips,omitempty"`
	LocalDeals []string `json:"local_deals,omitempty"`
}

// Split returns the suggested split as plain percentages.
func (b *BudgetInsight) Split() map[string]float64 {
	if len(b.SuggestedSplit) == 0 {
		return nil
	}
	out := make(map[string]float64, len(b.SuggestedSplit))
	for k, v := range b.SuggestedSplit {
		out[k] = v.Float()
	}
	return out
}

// Footprint is one CO2 contributor.
type Footprint struct {
	Name  string `json:"name"`
	Value Number `json:"value"`
	Color string `json:"color"`
}

// EcoSwap pairs a high-impact choice with a greener alternative.
type EcoSwap struct {
	Original      string `json:"original"`
	Swap          string `json:"swap"`
	CO2Saved      Number `json:"co2_saved"`
	FinancialSave Text   `json:"financial_save"`
}

// SustainabilityInsight is the eco-travel panel.
type SustainabilityInsight struct {
	FootprintData  []Footprint `json:"footprint_data"`
	EcoSwaps       []EcoSwap   `json:"eco_swaps"`
	LocalEcoStatus string      `json:"local_eco_status"`
}

// TotalFootprint sums the footprint values in kg CO2.
func (s *SustainabilityInsight) TotalFootprint() float64 {
	var sum float64
	for _, f := range s.FootprintData {
		sum += f.Value.Float()
	}
	return sum
}

// Review is one traveler review.
type Review struct {
	Author    string `json:"author"`
	Rating    Number `json:"rating"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Date      string `json:"date"`
}

// ReviewsInsight is the review sentiment panel.
type ReviewsInsight struct {
	TrustScore Number   `json:"trust_score"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
	Reviews    []Review `json:"reviews"`
	AISummary  string   `json:"ai_summary"`
}

// Insight is the decoded result of one insight call. Exactly one of the
// typed fields is set, matching Category.
type Insight struct {
	Category       Category
	Destination    string
	FetchedAt      time.Time
	Budget         *BudgetInsight
	Crowd          *CrowdInsight
	Safety         *SafetyInsight
	Sustainability *SustainabilityInsight
	Reviews        *ReviewsInsight
}

// Insight fetches and decodes one insight panel. Defaults are filled in
// before returning, so renderers never see missing fields.
func (c *Client) Insight(ctx context.Context, req InsightRequest) (*Insight, error) {
	var env insightEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/ai/insight", req, &env); err != nil {
		return nil, err
	}
	return DecodeInsight(req.Category, req.Destination, env.Insight)
}

// DecodeInsight decodes a raw insight document for a category and fills
// defaults. A missing document or one carrying an "error" key yields
// ErrInsightUnavailable.
func DecodeInsight(cat Category, destination string, raw json.RawMessage) (*Insight, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrInsightUnavailable
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s insight is not an object", ErrInsightUnavailable, cat)
	}
	if probe.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrInsightUnavailable, probe.Error)
	}

	in := &Insight{Category: cat, Destination: destination, FetchedAt: time.Now()}
	var target any
	switch cat {
	case CategoryBudget:
		in.Budget = &BudgetInsight{}
		target = in.Budget
	case CategoryCrowd:
		in.Crowd = &CrowdInsight{}
		target = in.Crowd
	case CategorySafety:
		in.Safety = &SafetyInsight{}
		target = in.Safety
	case CategorySustainability:
		in.Sustainability = &SustainabilityInsight{}
		target = in.Sustainability
	case CategoryReviews:
		in.Reviews = &ReviewsInsight{}
		target = in.Reviews
	default:
		return nil, fmt.Errorf("travelapi: unknown insight category %q", cat)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("travelapi: parsing %s insight: %w", cat, err)
	}
	in.Normalize()
	return in, nil
}

// InsightSet holds the result of fetching several categories.
type InsightSet struct {
	Insights  map[Category]*Insight
	Errors    map[Category]error
	FetchedAt time.Time
}

// Err returns the first error in category order, or nil.
func (s *InsightSet) Err() error {
	for _, c := range Categories {
		if err := s.Errors[c]; err != nil {
			return err
		}
	}
	return nil
}

// FetchAll fetches every insight panel for a trip concurrently.
// Partial data is returned even if some requests fail.
func (c *Client) FetchAll(ctx context.Context, trip model.Trip) *InsightSet {
	set := &InsightSet{
		Insights:  make(map[Category]*Insight, len(Categories)),
		Errors:    make(map[Category]error),
		FetchedAt: time.Now(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, cat := range Categories {
		wg.Add(1)
		go func(cat Category) {
			defer wg.Done()
			in, err := c.Insight(ctx, RequestFor(cat, trip))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				set.Errors[cat] = err
				return
			}
			set.Insights[cat] = in
		}(cat)
	}
	wg.Wait()

	return set
}

// maxReviewPlaces caps how many itinerary titles go into a reviews request.
const maxReviewPlaces = 10

// RequestFor builds the insight request for a trip. Budget requests carry
// the travel style; reviews requests carry up to ten itinerary titles.
func RequestFor(cat Category, trip model.Trip) InsightRequest {
	req := InsightRequest{Destination: trip.Destination, Category: cat}
	switch cat {
	case CategoryBudget:
		req.Context = append([]string(nil), trip.TravelStyle...)
	case CategoryReviews:
		for _, d := range trip.Itinerary.Days {
			for _, a := range d.Activities {
				if a.Title == "" {
					continue
				}
				if len(req.Context) == maxReviewPlaces {
					return req
				}
				req.Context = append(req.Context, a.Title)
			}
		}
	}
	return req
}
