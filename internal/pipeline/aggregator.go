// Package pipeline derives budget breakdowns from trip itineraries.
package pipeline

import (
	"fmt"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// Baseline shares of the total budget substituted for empty buckets.
const (
	baselineFood       = 0.20
	baselineHotels     = 0.40
	baselineTransit    = 0.15
	baselineActivities = 0.20

	// otherFloor replaces a negative "other" bucket (overspend).
	otherFloor = 0.05
)

// AggregateCategories walks the itinerary once and returns per-bucket totals,
// with baseline fallbacks applied to empty buckets and "other" recomputed as
// the residual of total.
func AggregateCategories(it model.Itinerary, total float64) model.CategoryTotals {
	cats, _ := aggregateCategories(it, total, USDConversionRate)
	return cats
}

// aggregateCategories also reports whether the "other" residual was clamped.
func aggregateCategories(it model.Itinerary, total, usdRate float64) (model.CategoryTotals, bool) {
	var c model.CategoryTotals

	for _, day := range it.Days {
		for _, act := range day.Activities {
			cost := ParseCostWithRate(act.CostEstimate, usdRate)
			switch act.Type {
			case model.TypeFood:
				c.Food += cost
			case model.TypeActivity:
				c.Activities += cost
			case model.TypeHotel:
				c.Hotels += cost
			case model.TypeTransport:
				c.Transit += cost
			default:
				c.Other += cost
			}
		}
	}

	if total < 0 {
		total = 0
	}

	// Baseline adjustments keep a sparse itinerary from charting as all zeros.
	if c.Food == 0 {
		c.Food = total * baselineFood
	}
	if c.Hotels == 0 {
		c.Hotels = total * baselineHotels
	}
	if c.Transit == 0 {
		c.Transit = total * baselineTransit
	}
	if c.Activities == 0 {
		c.Activities = total * baselineActivities
	}

	clamped := false
	c.Other = total - (c.Food + c.Hotels + c.Transit + c.Activities)
	if c.Other < 0 {
		c.Other = total * otherFloor
		clamped = true
	}

	return c, clamped
}

// AggregateDays returns the parsed spend per itinerary day, in day order.
func AggregateDays(it model.Itinerary) []model.DailySpend {
	return aggregateDays(it, USDConversionRate)
}

func aggregateDays(it model.Itinerary, usdRate float64) []model.DailySpend {
	days := make([]model.DailySpend, 0, len(it.Days))
	for i, day := range it.Days {
		ds := model.DailySpend{
			Day:   i + 1,
			Label: fmt.Sprintf("Day %d", i+1),
		}
		for _, act := range day.Activities {
			ds.Amount += ParseCostWithRate(act.CostEstimate, usdRate)
		}
		days = append(days, ds)
	}
	return days
}

// EstimatedSpend sums the daily series.
func EstimatedSpend(days []model.DailySpend) float64 {
	var sum float64
	for _, d := range days {
		sum += d.Amount
	}
	return sum
}
