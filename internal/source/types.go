package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// RawTrip is one trip as the web app keeps it in local storage. Exports
// carry extra fields (cover_image, spent) that are ignored.
type RawTrip struct {
	ID           string          `json:"id"`
	Destination  string          `json:"destination"`
	DurationDays flexFloat       `json:"duration_days"`
	Duration     flexFloat       `json:"duration"`
	TravelStyle  []string        `json:"travel_style"`
	Budget       *RawBudget      `json:"budget"`
	Itinerary    model.Itinerary `json:"itinerary"`
	SafetyScore  flexFloat       `json:"safety_score"`
	EcoScore     flexFloat       `json:"eco_score"`
}

// RawBudget is the budget object of an exported trip.
type RawBudget struct {
	Total    flexFloat `json:"total"`
	Currency string    `json:"currency"`
}

// rawExport is the object form of an export file.
type rawExport struct {
	Trips        []json.RawMessage `json:"trips"`
	ActiveTripID string            `json:"activeTripId"`
}

// DiscoveredFile is an export file found during scanning.
type DiscoveredFile struct {
	Path  string
	Lines bool // one trip per line (.jsonl)
}

// flexFloat accepts numbers, numeric strings and null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(unq)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
