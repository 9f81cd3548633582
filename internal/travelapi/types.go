package travelapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// User is the signed-in account as reported by the API.
type User struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Disabled bool   `json:"disabled"`
}

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// VideoRequest is the body of a video search.
type VideoRequest struct {
	Query string `json:"query"`
}

// Video is one video search hit.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	PublishTime string `json:"publishTime"`
}

// URL returns the watch link for the video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// VideoResponse wraps the search results.
type VideoResponse struct {
	Videos []Video `json:"videos"`
}

// Preferences shape how the planner builds an itinerary.
type Preferences struct {
	Pace                string   `json:"pace"`
	TravelStyle         []string `json:"travel_style"`
	Accessibility       string   `json:"accessibility,omitempty"`
	DietaryRestrictions string   `json:"dietary_restrictions,omitempty"`
}

// PlanRequest is the body of a planner call.
type PlanRequest struct {
	Destination           string      `json:"destination"`
	Dates                 string      `json:"dates"`
	DurationDays          int         `json:"duration_days"`
	Budget                string      `json:"budget"`
	GroupSize             int         `json:"group_size"`
	Preferences           Preferences `json:"preferences"`
	NaturalLanguagePrompt string      `json:"natural_language_prompt,omitempty"`
}

// PlanResponse carries the itinerary as an embedded JSON document.
type PlanResponse struct {
	ItineraryJSON json.RawMessage `json:"itinerary_json"`
}

// Number decodes a JSON number or a numeric string such as "75", "75%",
// "4.5/5" or "15 mins". Anything unparseable decodes as zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	v, ok := parseNumber(b)
	if ok {
		*n = Number(v)
	} else {
		*n = 0
	}
	return nil
}

// Float returns the value as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '-' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Text decodes a JSON string, number or bool into a string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil || v == nil {
		*t = ""
		return nil
	}
	*t = Text(fmt.Sprint(v))
	return nil
}

// String implements fmt.Stringer.
func (t Text) String() string {
	return string(t)
}

// CostIndex is the relative price level per expense area. The API sends
// either a single level ("Mid") or an object keyed by area.
type CostIndex map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CostIndex) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			*c = CostIndex{"overall": s}
		}
		return nil
	}
	var m map[string]Text
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	out := make(CostIndex, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = string(v)
	}
	*c = out
	return nil
}

// Summary renders the index on one line, areas in alphabetical order.
func (c CostIndex) Summary() string {
	if v, ok := c["overall"]; ok && len(c) == 1 {
		return v
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+c[k])
	}
	return strings.Join(parts, ", ")
}

// Expense is a typical tourist expense. The API sends either a bare string
// or an object with loosely named fields.
type Expense struct {
	Title        string `json:"title"`
	CostEstimate string `json:"cost_estimate"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expense) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = Expense{Title: s}
		return nil
	}
	var m map[string]Text
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	*e = Expense{
		Title:        firstOf(m, "title", "item", "name", "expense"),
		CostEstimate: firstOf(m, "cost_estimate", "price", "estimated_price", "cost", "amount"),
	}
	return nil
}

func firstOf(m map[string]Text, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(string(m[k])); v != "" {
			return v
		}
	}
	return ""
}
