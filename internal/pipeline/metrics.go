package pipeline

import (
	"fmt"
	"math"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// Alert thresholds on the unclamped spend/total ratio.
const (
	warningFactor  = 0.8
	criticalFactor = 0.9
)

// Options tunes Analyze. The zero value matches the dashboard defaults.
type Options struct {
	HighImpactLimit int
	USDRate         float64
}

// ComputeMetrics derives the gauge values for a spend against a total.
func ComputeMetrics(spend, total float64) model.BudgetMetrics {
	m := model.BudgetMetrics{
		Total:          total,
		EstimatedSpend: spend,
		Remaining:      math.Max(total-spend, 0),
	}
	if total > 0 {
		m.HealthFactor = spend / total
		m.SpentPercentage = math.Min(spend/total*100, 100)
		if m.SpentPercentage < 0 {
			m.SpentPercentage = 0
		}
	}

	switch {
	case m.HealthFactor > criticalFactor:
		m.Health = model.HealthCritical
	case m.HealthFactor > warningFactor:
		m.Health = model.HealthWarning
	default:
		m.Health = model.HealthOK
	}
	return m
}

// Analyze computes the full budget breakdown for a trip.
func Analyze(trip model.Trip, opts Options) model.BudgetBreakdown {
	rate := usableRate(opts.USDRate)
	total := trip.EffectiveTotal()

	cats, clamped := aggregateCategories(trip.Itinerary, total, rate)
	daily := aggregateDays(trip.Itinerary, rate)
	spend := EstimatedSpend(daily)

	return model.BudgetBreakdown{
		TripID:      trip.ID,
		Destination: trip.Destination,
		Currency:    trip.Currency(),
		Categories:  cats,
		Daily:       daily,
		HighImpact:  highImpactItems(trip.Itinerary, total, opts.HighImpactLimit, rate),
		Metrics:     ComputeMetrics(spend, total),
		Overspent:   clamped,
	}
}

// ApplySuggestedSplit overlays an AI-suggested percentage split on the
// computed allocation. Keys are the insight labels (Accommodation, Food,
// Transport, Activities); missing or non-positive entries keep the computed
// amount. Misc always stays the computed residual.
func ApplySuggestedSplit(c model.CategoryTotals, total float64, split map[string]float64) model.CategoryTotals {
	if len(split) == 0 {
		return c
	}
	pick := func(key string, current float64) float64 {
		if pct, ok := split[key]; ok && pct > 0 {
			return total * pct / 100
		}
		return current
	}
	c.Hotels = pick("Accommodation", c.Hotels)
	c.Food = pick("Food", c.Food)
	c.Transit = pick("Transport", c.Transit)
	c.Activities = pick("Activities", c.Activities)
	return c
}

// SelectTip picks the advisory shown beside the budget gauge.
func SelectTip(trip model.Trip, m model.BudgetMetrics) model.BudgetTip {
	dest := trip.Destination

	if m.HealthFactor > criticalFactor {
		return model.BudgetTip{
			Title: "Budget Alert",
			Text: fmt.Sprintf("Critical! You are at %d%% of your limit. Skip high-end venues in %s and use local transport.",
				int(math.Round(m.HealthFactor*100)), dest),
			Level: model.HealthCritical,
		}
	}
	if trip.HasStyle("Food") {
		return model.BudgetTip{
			Title: "Taste & Save",
			Text:  fmt.Sprintf("In %s, many top-rated places offer affordable lunch specials. Make lunch your main meal to save.", dest),
			Level: m.Health,
		}
	}
	if trip.HasStyle("Nature") || trip.HasStyle("Adventure") {
		return model.BudgetTip{
			Title: "Eco Explorer",
			Text:  fmt.Sprintf("Many trails and parks in %s have free entry before 8 AM. Early starts save money and crowds.", dest),
			Level: m.Health,
		}
	}
	return model.BudgetTip{
		Title: "Pro Smart Tip",
		Text:  fmt.Sprintf("Booking local experiences through local apps in %s saves up to 15%% over hotel desks.", dest),
		Level: m.Health,
	}
}
