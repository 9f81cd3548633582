package travelapi

import (
	"fmt"
	"math"
	"strings"
)

// Defaults shown when an insight omits a field.
const (
	DefaultSafetyScore     = 85
	DefaultSafetyStatus    = "Stable"
	DefaultEmergencyNumber = "112"
	DefaultCostIndex       = "Mid"
	DefaultSentiment       = "Neutral"
)

// DefaultSavingTips are shown when a budget insight has no strategies.
var DefaultSavingTips = []string{
	"Use local transport like metros or rickshaws for short distances.",
	"Eat your main meal at 2 PM instead of 8 PM for lunch specials.",
	"Book museum tickets online in advance to avoid surcharges.",
}

// DefaultHiddenDeals are shown when a budget insight has no deals.
var DefaultHiddenDeals = []string{
	"Free entry to local temples before 8 AM.",
	"Hidden cafes in the Old Town with 30% lower prices.",
}

// defaultAdvisories pad the safety advisories shown on the panel.
var defaultAdvisories = []string{
	"No critical health alerts active.",
	"Stay vigilant in crowded areas.",
}

// Normalize fills defaults on whichever typed insight is set.
func (in *Insight) Normalize() {
	switch {
	case in.Budget != nil:
		in.Budget.Normalize(in.Destination)
	case in.Crowd != nil:
		in.Crowd.Normalize()
	case in.Safety != nil:
		in.Safety.Normalize()
	case in.Sustainability != nil:
		in.Sustainability.Normalize()
	case in.Reviews != nil:
		in.Reviews.Normalize()
	}
}

// Normalize fills budget defaults and folds legacy field names in.
func (b *BudgetInsight) Normalize(destination string) {
	if len(b.SavingsStrategies) == 0 {
		b.SavingsStrategies = b.SavingTips
	}
	if len(b.SavingsStrategies) == 0 {
		b.SavingsStrategies = append([]string(nil), DefaultSavingTips...)
	}
	if len(b.HiddenDeals) == 0 {
		b.HiddenDeals = b.LocalDeals
	}
	if len(b.HiddenDeals) == 0 {
		b.HiddenDeals = append([]string(nil), DefaultHiddenDeals...)
	}
	b.SavingTips, b.LocalDeals = nil, nil

	if strings.TrimSpace(b.BudgetAnalysis) == "" {
		b.BudgetAnalysis = fmt.Sprintf("Real-time financial analysis for your trip to %s", destination)
	}
	if len(b.CostIndex) == 0 {
		b.CostIndex = CostIndex{"overall": DefaultCostIndex}
	}

	for k, v := range b.SuggestedSplit {
		if v <= 0 || math.IsNaN(float64(v)) {
			delete(b.SuggestedSplit, k)
		}
	}

	expenses := b.TypicalExpenses[:0]
	for _, e := range b.TypicalExpenses {
		if e.Title == "" {
			continue
		}
		if e.CostEstimate == "" {
			e.CostEstimate = "Market Avg"
		}
		expenses = append(expenses, e)
	}
	b.TypicalExpenses = expenses
}

// Normalize clamps densities to 0-100 and drops unnamed spots.
func (c *CrowdInsight) Normalize() {
	for i := range c.HourlyForecast {
		c.HourlyForecast[i].Density = clamp(c.HourlyForecast[i].Density, 0, 100)
	}
	spots := c.MajorSpots[:0]
	for _, s := range c.MajorSpots {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		s.Density = clamp(s.Density, 0, 100)
		if s.WaitTime < 0 {
			s.WaitTime = 0
		}
		spots = append(spots, s)
	}
	c.MajorSpots = spots
}

// PeakHour returns the forecast point with the highest density.
func (c *CrowdInsight) PeakHour() (HourlyDensity, bool) {
	if len(c.HourlyForecast) == 0 {
		return HourlyDensity{}, false
	}
	peak := c.HourlyForecast[0]
	for _, h := range c.HourlyForecast[1:] {
		if h.Density > peak.Density {
			peak = h
		}
	}
	return peak, true
}

// Normalize fills safety defaults. A zero score is treated as missing.
func (s *SafetyInsight) Normalize() {
	if s.Score <= 0 {
		s.Score = DefaultSafetyScore
	}
	s.Score = clamp(s.Score, 0, 100)
	if strings.TrimSpace(s.Status) == "" {
		s.Status = DefaultSafetyStatus
	}
	if strings.TrimSpace(string(s.Emergency)) == "" {
		s.Emergency = DefaultEmergencyNumber
	}
	for i := len(s.Advisories); i < len(defaultAdvisories); i++ {
		s.Advisories = append(s.Advisories, defaultAdvisories[i])
	}
}

// Normalize drops empty footprint rows and negative values.
func (s *SustainabilityInsight) Normalize() {
	rows := s.FootprintData[:0]
	for _, f := range s.FootprintData {
		if f.Name == "" {
			continue
		}
		if f.Value < 0 {
			f.Value = 0
		}
		rows = append(rows, f)
	}
	s.FootprintData = rows
}

// Normalize clamps ratings to 0-5 and fills missing sentiment.
func (r *ReviewsInsight) Normalize() {
	r.TrustScore = clamp(r.TrustScore, 0, 5)
	for i := range r.Reviews {
		r.Reviews[i].Rating = clamp(r.Reviews[i].Rating, 0, 5)
		if r.Reviews[i].Sentiment == "" {
			r.Reviews[i].Sentiment = DefaultSentiment
		}
		if r.Reviews[i].Author == "" {
			r.Reviews[i].Author = "Anonymous"
		}
	}
}

func clamp(n Number, lo, hi float64) Number {
	v := float64(n)
	if math.IsNaN(v) {
		return Number(lo)
	}
	return Number(math.Max(lo, math.Min(hi, v)))
}
