// Package source discovers and parses trip exports from the web planner.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// destinationKey marks a line that holds a trip.
var destinationKey = []byte(`"destination"`)

// ParseResult holds the trips read from one export file.
type ParseResult struct {
	Trips []model.Trip
	// SourceIDs are the export ids, parallel to Trips.
	SourceIDs   []string
	ActiveID    string // export id of the active trip, if recorded
	ParseErrors int
	Skipped     int // entries without a destination
	Err         error
}

// ParseFile reads an export file. JSON files hold an array of trips or an
// object with a "trips" array; JSONL files hold one trip per line. Trips are
// deduplicated by export id, keeping the last entry per id in first-seen order.
func ParseFile(df DiscoveredFile) ParseResult {
	if df.Lines {
		return parseLines(df.Path)
	}
	return parseDocument(df.Path)
}

func parseDocument(path string) ParseResult {
	data, err := os.ReadFile(path) //nolint:gosec // import path is chosen by the local user
	if err != nil {
		return ParseResult{Err: err}
	}
	data = bytes.TrimSpace(data)

	var entries []json.RawMessage
	var active string
	switch {
	case len(data) == 0:
		return ParseResult{}
	case data[0] == '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding %s: %w", path, err)}
		}
	case data[0] == '{':
		var exp rawExport
		if err := json.Unmarshal(data, &exp); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding %s: %w", path, err)}
		}
		if exp.Trips == nil {
			// A single exported trip.
			entries = []json.RawMessage{data}
		} else {
			entries = exp.Trips
			active = exp.ActiveTripID
		}
	default:
		return ParseResult{Err: fmt.Errorf("%s is not a trip export", path)}
	}

	c := newCollector()
	for _, e := range entries {
		c.add(e)
	}
	res := c.result()
	res.ActiveID = active
	return res
}

func parseLines(path string) ParseResult {
	f, err := os.Open(path) //nolint:gosec // import path is chosen by the local user
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	c := newCollector()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !hasTopLevelKey(line, destinationKey) {
			c.skipped++
			continue
		}
		c.add(line)
	}
	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}
	return c.result()
}

type collector struct {
	order       []string
	byID        map[string]model.Trip
	anonymous   int
	parseErrors int
	skipped     int
}

func newCollector() *collector {
	return &collector{byID: make(map[string]model.Trip)}
}

func (c *collector) add(raw []byte) {
	var rt RawTrip
	if err := json.Unmarshal(raw, &rt); err != nil {
		c.parseErrors++
		return
	}
	trip, ok := rt.toTrip()
	if !ok {
		c.skipped++
		return
	}
	id := rt.ID
	if id == "" {
		// Trips without an id are never duplicates.
		c.anonymous++
		id = fmt.Sprintf("#%d", c.anonymous)
	}
	if _, seen := c.byID[id]; !seen {
		c.order = append(c.order, id)
	}
	c.byID[id] = trip
}

func (c *collector) result() ParseResult {
	res := ParseResult{
		ParseErrors: c.parseErrors,
		Skipped:     c.skipped,
	}
	for _, id := range c.order {
		res.Trips = append(res.Trips, c.byID[id])
		res.SourceIDs = append(res.SourceIDs, id)
	}
	return res
}

// toTrip converts an exported trip. Entries without a destination are
// rejected. A missing duration falls back to the itinerary length, then 1.
func (rt RawTrip) toTrip() (model.Trip, bool) {
	dest := strings.TrimSpace(rt.Destination)
	if dest == "" {
		return model.Trip{}, false
	}

	days := int(rt.DurationDays)
	if days < 1 {
		days = int(rt.Duration)
	}
	if days < 1 {
		days = len(rt.Itinerary.Days)
	}
	if days < 1 {
		days = 1
	}

	t := model.Trip{
		Destination:  dest,
		DurationDays: days,
		TravelStyle:  rt.TravelStyle,
		Itinerary:    rt.Itinerary,
		SafetyScore:  float64(rt.SafetyScore),
		EcoScore:     float64(rt.EcoScore),
	}
	if rt.Budget != nil {
		t.Budget = model.Budget{Total: float64(rt.Budget.Total), Currency: rt.Budget.Currency}
	}
	return t, true
}

// hasTopLevelKey reports whether key (quoted) is a key of the outermost
// object. Tracks nesting and string boundaries so nested keys and string
// values are ignored.
func hasTopLevelKey(line, key []byte) bool {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], key) && followedByColon(line, i+len(key)) {
				return true
			}
			i = skipJSONString(line, i)
		case '{', '[':
			depth++
			i++
		case '}', ']':
			depth--
			i++
		default:
			i++
		}
	}
	return false
}

func followedByColon(line []byte, pos int) bool {
	i := skipSpaces(line, pos)
	return i < len(line) && line[i] == ':'
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++ // skip opening quote
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
