package config

import "strings"

// DefaultPace is the planner pace used when none is chosen.
const DefaultPace = "Moderate"

// Paces lists the planner pace options.
var Paces = []string{"Relaxed", DefaultPace, "Fast-paced"}

// Interests lists the travel styles the planner understands.
var Interests = []string{"Nature", "History", "Food", "Adventure", "Relaxation", "Shopping", "Culture", "Photography"}

// BudgetTier is a preset budget choice offered by the planner.
type BudgetTier struct {
	Label string
	Input string
}

// BudgetTiers are the preset planner budgets, cheapest first.
var BudgetTiers = []BudgetTier{
	{Label: "Budget", Input: "Budget (₹20k)"},
	{Label: "Medium", Input: "Medium (₹50k)"},
	{Label: "High", Input: "High (₹1L+)"},
}

// DefaultBudgetInput is the planner budget used when none is given.
const DefaultBudgetInput = "Medium (₹50k)"

// NormalizeInterest maps a user-typed style onto a known interest, matching
// case-insensitively. Unknown styles are returned trimmed and unchanged.
func NormalizeInterest(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, in := range Interests {
		if strings.EqualFold(in, s) {
			return in, true
		}
	}
	return s, false
}

// NormalizeRegenerate returns a valid regenerate mode, defaulting to update.
func NormalizeRegenerate(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), RegenerateNew) {
		return RegenerateNew
	}
	return RegenerateUpdate
}

// NormalizePace returns the matching known pace, or DefaultPace.
func NormalizePace(raw string) string {
	s := strings.TrimSpace(raw)
	for _, p := range Paces {
		if strings.EqualFold(p, s) {
			return p
		}
	}
	return DefaultPace
}
