package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// defaultBudgetInput is used when a budget string carries no digits.
const defaultBudgetInput = 2000

// ParseBudgetInput converts planner budget text ("Medium (₹50k)", "2L",
// "30000") into a number. A k suffix multiplies by 1,000 and an l (lakh)
// suffix by 100,000; the suffix must directly follow the digits.
func ParseBudgetInput(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))

	digits := keepDigits(s)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n == 0 {
		return defaultBudgetInput
	}

	val := float64(n)
	switch suffixAfterLastDigit(s) {
	case 'k':
		val *= 1_000
	case 'l':
		val *= 100_000
	}
	return val
}

func suffixAfterLastDigit(s string) rune {
	last := strings.LastIndexFunc(s, unicode.IsDigit)
	if last < 0 || last+1 >= len(s) {
		return 0
	}
	rest := strings.TrimLeft(s[last+1:], " ")
	for _, r := range rest {
		return r
	}
	return 0
}

// FallbackItinerary builds the deterministic placeholder itinerary used when the
// planner response cannot be parsed: one day per requested day (at least one),
// each holding a single landmark visit.
func FallbackItinerary(destination string, days int, pace string) model.Itinerary {
	if days < 1 {
		days = 1
	}
	if pace == "" {
		pace = "Moderate"
	}

	it := model.Itinerary{
		Summary: model.TripSummary{
			Title:               "Trip to " + destination,
			Description:         fmt.Sprintf("A customized %d-day journey through %s, tailored to your %s pace.", days, destination, pace),
			SustainabilityScore: 8,
		},
		Days: make([]model.Day, 0, days),
	}

	for i := 1; i <= days; i++ {
		it.Days = append(it.Days, model.Day{
			Day:               i,
			Date:              fmt.Sprintf("Day %d", i),
			Theme:             fmt.Sprintf("Exploring %s - Part %d", destination, i),
			WeatherPrediction: "Sunny, 25°C",
			Activities: []model.Activity{
				{
					Time:         "10:00 AM",
					Title:        fmt.Sprintf("Visit %s Landmark", destination),
					Type:         model.TypeActivity,
					Description:  fmt.Sprintf("Explore the famous sites of %s.", destination),
					Location:     destination,
					CostEstimate: "₹500",
					AIReasoning:  "Must-see location.",
				},
			},
		})
	}
	return it
}
