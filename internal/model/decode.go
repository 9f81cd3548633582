package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts a cost estimate sent as a number as well as text.
func (a *Activity) UnmarshalJSON(b []byte) error {
	type plain Activity
	var aux struct {
		plain
		CostEstimate json.RawMessage `json:"cost_estimate"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Activity(aux.plain)
	a.CostEstimate = costString(aux.CostEstimate)
	return nil
}

// UnmarshalJSON accepts a sustainability score sent as a string ("8", "8/10")
// and an estimated cost sent as a number.
func (s *TripSummary) UnmarshalJSON(b []byte) error {
	type plain TripSummary
	var aux struct {
		plain
		SustainabilityScore json.RawMessage `json:"sustainability_score"`
		EstimatedTotalCost  json.RawMessage `json:"estimated_total_cost"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = TripSummary(aux.plain)
	s.EstimatedTotalCost = costString(aux.EstimatedTotalCost)

	score := looseString(aux.SustainabilityScore)
	if i := strings.IndexAny(score, "/ "); i >= 0 {
		score = score[:i]
	}
	if f, err := strconv.ParseFloat(score, 64); err == nil {
		s.SustainabilityScore = int(f)
	}
	return nil
}

// costString is looseString for money fields. A number is rounded to a
// whole amount so the digit-only cost parser reads the same value
// (1.5e3 -> "1500", 12.4 -> "12"); negative numbers become "0".
func costString(raw json.RawMessage) string {
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return looseString(raw)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f < 0 {
			return "0"
		}
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	return looseString(raw)
}

// looseString renders a JSON string, number or bool as text. Null, objects
// and arrays yield "".
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var bv bool
	if err := json.Unmarshal(raw, &bv); err == nil {
		return strconv.FormatBool(bv)
	}
	return ""
}
