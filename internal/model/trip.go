// Package model defines domain types for tripmeter trips, itineraries and budgets.
package model

import (
	"strings"
	"time"
)

// Activity types recognized by the budget aggregator.
const (
	TypeFood      = "food"
	TypeActivity  = "activity"
	TypeHotel     = "hotel"
	TypeTransport = "transport"
	TypeBreak     = "break"
)

// DefaultCurrency is used when a trip carries no currency symbol.
const DefaultCurrency = "₹"

// Alternative is a fallback suggestion attached to an activity.
type Alternative struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Activity is one scheduled line item within a day.
// CostEstimate is free text ("₹500", "$20", "Free") and may be empty.
type Activity struct {
	Time            string        `json:"time,omitempty"`
	Title           string        `json:"title"`
	Type            string        `json:"type,omitempty"`
	Description     string        `json:"description,omitempty"`
	Location        string        `json:"location,omitempty"`
	CostEstimate    string        `json:"cost_estimate,omitempty"`
	CrowdPrediction string        `json:"crowd_prediction,omitempty"`
	AIReasoning     string        `json:"ai_reasoning,omitempty"`
	Alternatives    []Alternative `json:"alternatives,omitempty"`
}

// Day is one itinerary day. Activities are in schedule order.
type Day struct {
	Day               int        `json:"day"`
	Date              string     `json:"date,omitempty"`
	Theme             string     `json:"theme,omitempty"`
	WeatherPrediction string     `json:"weather_prediction,omitempty"`
	Activities        []Activity `json:"activities"`
}

// TripSummary is the header block the planner returns with an itinerary.
type TripSummary struct {
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	SustainabilityScore int    `json:"sustainability_score,omitempty"`
	EstimatedTotalCost  string `json:"estimated_total_cost,omitempty"`
}

// Itinerary is an ordered list of days.
type Itinerary struct {
	Summary TripSummary `json:"trip_summary"`
	Days    []Day       `json:"days"`
}

// ActivityCount returns the number of activities across all days.
func (it Itinerary) ActivityCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Activities)
	}
	return n
}

// Budget is the user-declared spend ceiling for a trip.
type Budget struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// Trip is a planned journey held by the trip store.
type Trip struct {
	ID           string    `json:"id"`
	Destination  string    `json:"destination"`
	DurationDays int       `json:"duration_days"`
	TravelStyle  []string  `json:"travel_style,omitempty"`
	Budget       Budget    `json:"budget"`
	Itinerary    Itinerary `json:"itinerary"`
	SafetyScore  float64   `json:"safety_score"`
	EcoScore     float64   `json:"eco_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Currency returns the trip currency symbol, defaulting to DefaultCurrency.
func (t Trip) Currency() string {
	if t.Budget.Currency == "" {
		return DefaultCurrency
	}
	return t.Budget.Currency
}

// EffectiveTotal returns the budget total used for analysis.
// Trips without a positive total fall back to 5000 per day, then to a flat 5000.
func (t Trip) EffectiveTotal() float64 {
	if t.Budget.Total > 0 {
		return t.Budget.Total
	}
	if t.DurationDays > 0 {
		return float64(t.DurationDays) * 5000
	}
	return 5000
}

// HasStyle reports whether the trip's travel style list contains s (case-insensitive).
func (t Trip) HasStyle(s string) bool {
	for _, st := range t.TravelStyle {
		if strings.EqualFold(st, s) {
			return true
		}
	}
	return false
}
