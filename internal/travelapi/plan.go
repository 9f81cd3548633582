package travelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
)

// PlanResult is a generated itinerary. Fallback is set when the planner
// response could not be used and a placeholder itinerary was substituted.
type PlanResult struct {
	Itinerary model.Itinerary
	Fallback  bool
}

// Plan asks the planner for an itinerary. Network and HTTP failures are
// returned as errors; an unusable itinerary document is not an error and
// yields the deterministic fallback instead.
func (c *Client) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	var resp PlanResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/plan", req, &resp); err != nil {
		return nil, err
	}

	it, err := DecodeItinerary(resp.ItineraryJSON)
	if err != nil {
		return &PlanResult{
			Itinerary: pipeline.FallbackItinerary(req.Destination, req.DurationDays, req.Preferences.Pace),
			Fallback:  true,
		}, nil
	}
	return &PlanResult{Itinerary: it}, nil
}

// DecodeItinerary parses an itinerary document. The document may be a JSON
// object or a JSON string containing one. A document without a "days" key
// is rejected.
func DecodeItinerary(raw json.RawMessage) (model.Itinerary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Itinerary{}, fmt.Errorf("decoding itinerary string: %w", err)
		}
		raw = json.RawMessage(strings.TrimSpace(stripCodeFence(s)))
	}

	var probe struct {
		Days json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.Itinerary{}, fmt.Errorf("decoding itinerary: %w", err)
	}
	if len(probe.Days) == 0 || bytes.Equal(probe.Days, []byte("null")) {
		return model.Itinerary{}, fmt.Errorf("itinerary has no days")
	}

	var it model.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return model.Itinerary{}, fmt.Errorf("decoding itinerary: %w", err)
	}
	for i := range it.Days {
		if it.Days[i].Day <= 0 {
			it.Days[i].Day = i + 1
		}
	}
	return it, nil
}

// stripCodeFence removes a surrounding ```json fence some models emit.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// ChatContext describes the active trip for the assistant.
func ChatContext(trip *model.Trip) string {
	if trip == nil {
		return "General Travel Advice mode."
	}
	return fmt.Sprintf("Destination: %s. Duration: %d days. Budget: %s%.0f. Style: %s.",
		trip.Destination, trip.DurationDays, trip.Currency(), trip.Budget.Total,
		strings.Join(trip.TravelStyle, ", "))
}

// VideoQuery builds the video tour search for a destination.
func VideoQuery(destination string) string {
	return strings.TrimSpace(destination) + " travel guide 4k"
}
