package model

// Category identifies one of the five allocation buckets.
type Category string

// Allocation buckets, in display order.
const (
	CategoryHotels     Category = "hotels"
	CategoryFood       Category = "food"
	CategoryTransit    Category = "transit"
	CategoryActivities Category = "activities"
	CategoryOther      Category = "other"
)

// Categories lists every bucket in display order.
var Categories = []Category{
	CategoryHotels,
	CategoryFood,
	CategoryTransit,
	CategoryActivities,
	CategoryOther,
}

// Label returns the human-facing bucket name.
func (c Category) Label() string {
	switch c {
	case CategoryHotels:
		return "Accommodation"
	case CategoryFood:
		return "Food & Dining"
	case CategoryTransit:
		return "Transport"
	case CategoryActivities:
		return "Activities"
	default:
		return "Misc"
	}
}

// CategoryTotals holds per-bucket amounts in the trip currency.
type CategoryTotals struct {
	Food       float64 `json:"food"`
	Activities float64 `json:"activities"`
	Hotels     float64 `json:"hotels"`
	Transit    float64 `json:"transit"`
	Other      float64 `json:"other"`
}

// Get returns the amount for a bucket.
func (c CategoryTotals) Get(cat Category) float64 {
	switch cat {
	case CategoryFood:
		return c.Food
	case CategoryActivities:
		return c.Activities
	case CategoryHotels:
		return c.Hotels
	case CategoryTransit:
		return c.Transit
	default:
		return c.Other
	}
}

// Sum returns the total across all five buckets.
func (c CategoryTotals) Sum() float64 {
	return c.Food + c.Activities + c.Hotels + c.Transit + c.Other
}

// DailySpend is the parsed spend for one itinerary day.
type DailySpend struct {
	Day    int     `json:"day"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// HighImpactItem is an itinerary line item costing more than 5% of the budget.
type HighImpactItem struct {
	Day          int     `json:"day"`
	Title        string  `json:"title"`
	Type         string  `json:"type,omitempty"`
	Location     string  `json:"location,omitempty"`
	CostEstimate string  `json:"cost_estimate"`
	Amount       float64 `json:"amount"`
	SharePercent float64 `json:"share_percent"`
}

// HealthLevel classifies budget consumption for alerting.
type HealthLevel int

// Health levels, ordered by severity.
const (
	HealthOK HealthLevel = iota
	HealthWarning
	HealthCritical
)

func (h HealthLevel) String() string {
	switch h {
	case HealthCritical:
		return "critical"
	case HealthWarning:
		return "warning"
	default:
		return "ok"
	}
}

// BudgetMetrics holds the gauge values derived from spend and total.
type BudgetMetrics struct {
	Total           float64     `json:"total"`
	EstimatedSpend  float64     `json:"estimated_spend"`
	SpentPercentage float64     `json:"spent_percentage"` // clamped to [0, 100]
	Remaining       float64     `json:"remaining"`
	HealthFactor    float64     `json:"health_factor"` // unclamped spend/total
	Health          HealthLevel `json:"health"`
}

// BudgetBreakdown is the full derived view of a trip's budget.
type BudgetBreakdown struct {
	TripID      string           `json:"trip_id"`
	Destination string           `json:"destination"`
	Currency    string           `json:"currency"`
	Categories  CategoryTotals   `json:"categories"`
	Daily       []DailySpend     `json:"daily"`
	HighImpact  []HighImpactItem `json:"high_impact"`
	Metrics     BudgetMetrics    `json:"metrics"`

	// Overspent is set when the computed "other" bucket went negative and was
	// clamped to 5% of total, so the chart no longer shows the overrun.
	Overspent bool `json:"overspent"`
}

// BudgetTip is a short advisory shown next to the budget gauge.
type BudgetTip struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Level HealthLevel
}
