package pipeline

import (
	"sort"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// DefaultHighImpactLimit is how many high-impact items the dashboards show.
const DefaultHighImpactLimit = 5

// highImpactShare is the fraction of total an item must exceed to be listed.
const highImpactShare = 0.05

// HighImpactItems returns line items costing more than 5% of total, most
// expensive first. Equal costs keep itinerary order. limit <= 0 uses
// DefaultHighImpactLimit.
func HighImpactItems(it model.Itinerary, total float64, limit int) []model.HighImpactItem {
	return highImpactItems(it, total, limit, USDConversionRate)
}

func highImpactItems(it model.Itinerary, total float64, limit int, usdRate float64) []model.HighImpactItem {
	if limit <= 0 {
		limit = DefaultHighImpactLimit
	}
	threshold := total * highImpactShare

	var items []model.HighImpactItem
	for i, day := range it.Days {
		dayNum := day.Day
		if dayNum <= 0 {
			dayNum = i + 1
		}
		for _, act := range day.Activities {
			cost := ParseCostWithRate(act.CostEstimate, usdRate)
			if cost <= threshold {
				continue
			}
			item := model.HighImpactItem{
				Day:          dayNum,
				Title:        act.Title,
				Type:         act.Type,
				Location:     act.Location,
				CostEstimate: act.CostEstimate,
				Amount:       cost,
			}
			if total > 0 {
				item.SharePercent = cost / total * 100
			}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount > items[j].Amount
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
