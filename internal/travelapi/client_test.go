package travelapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// newTestClient starts a server running handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "tok", 2*time.Second)
	if c == nil {
		t.Fatalf("NewClient(%q) returned nil", srv.URL)
	}
	return c
}

func TestNewClient_RejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "   ", "ftp://host", "localhost:8000", "http://"} {
		if c := NewClient(u, "", 0); c != nil {
			t.Errorf("NewClient(%q) = %v, want nil", u, c)
		}
	}
	c := NewClient("http://localhost:8000/", "", 0)
	if c == nil || c.BaseURL() != "http://localhost:8000" {
		t.Fatalf("trailing slash not trimmed: %+v", c)
	}
	if c.HasToken() {
		t.Error("HasToken = true for empty token")
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := c.Chat(context.Background(), "hi", "")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.Chat(context.Background(), "hi", ""); err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("502 err = %v", err)
	}
}

func TestClient_SendsBearerAndJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/api/ai/chat" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.Message != "best chai?" || req.Context != "ctx" {
			t.Errorf("body = %+v", req)
		}
		_, _ = io.WriteString(w, `{"response":"  Try the stalls near the station.  "}`)
	})

	got, err := c.Chat(context.Background(), "best chai?", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Try the stalls near the station." {
		t.Errorf("Chat = %q", got)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 50*time.Millisecond)
	start := time.Now()
	if _, err := c.Chat(context.Background(), "x", ""); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("request took %v, timeout not applied", time.Since(start))
	}
}

func TestClient_Videos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req VideoRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "Kyoto travel guide 4k" {
			t.Errorf("query = %q", req.Query)
		}
		_, _ = io.WriteString(w, `{"videos":[
			{"id":"abc","title":"Kyoto Walk","channel":"Rambalac","publishTime":"2024-01-01T00:00:00Z"},
			{"id":"","title":"broken"}
		]}`)
	})

	videos, err := c.Videos(context.Background(), VideoQuery(" Kyoto "))
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].Channel != "Rambalac" {
		t.Fatalf("videos = %+v", videos)
	}
	if videos[0].URL() != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("URL = %q", videos[0].URL())
	}
}

func TestClient_Me(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/auth/me" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"email":"asha@example.com","full_name":"Asha"}`)
	})
	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "asha@example.com" || u.FullName != "Asha" {
		t.Errorf("user = %+v", u)
	}
}

func TestPlan_UsesItinerary(t *testing.T) {
	doc := `{"trip_summary":{"title":"Goa Getaway","sustainability_score":"8"},"days":[{"activities":[{"title":"Beach","type":"activity","cost_estimate":0}]}]}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req PlanRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Preferences.Pace != "Relaxed" || req.DurationDays != 2 {
			t.Errorf("plan request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"itinerary_json": doc})
	})

	res, err := c.Plan(context.Background(), PlanRequest{
		Destination:  "Goa",
		DurationDays: 2,
		Preferences:  Preferences{Pace: "Relaxed"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Fallback {
		t.Fatal("valid itinerary reported as fallback")
	}
	if res.Itinerary.Summary.Title != "Goa Getaway" || res.Itinerary.Summary.SustainabilityScore != 8 {
		t.Errorf("summary = %+v", res.Itinerary.Summary)
	}
	if len(res.Itinerary.Days) != 1 || res.Itinerary.Days[0].Day != 1 {
		t.Errorf("days = %+v", res.Itinerary.Days)
	}
}

func TestPlan_FallbackOnBadDocument(t *testing.T) {
	for _, body := range []string{
		`{"itinerary_json":"not json at all"}`,
		`{"itinerary_json":"{}"}`,
		`{"itinerary_json":"{\"trip_summary\":{}}"}`,
		`{}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		res, err := c.Plan(context.Background(), PlanRequest{Destination: "Agra", DurationDays: 3})
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if !res.Fallback || len(res.Itinerary.Days) != 3 {
			t.Errorf("%s: fallback=%v days=%d", body, res.Fallback, len(res.Itinerary.Days))
		}
	}
}

func TestDecodeItinerary_ObjectAndFence(t *testing.T) {
	it, err := DecodeItinerary(json.RawMessage(`{"days":[{"day":4,"activities":[]}]}`))
	if err != nil || it.Days[0].Day != 4 {
		t.Fatalf("object form: %+v, %v", it, err)
	}

	fenced, _ := json.Marshal("```json\n{\"days\":[]}\n```")
	it, err = DecodeItinerary(fenced)
	if err != nil {
		t.Fatalf("fenced form: %v", err)
	}
	if len(it.Days) != 0 {
		t.Errorf("days = %+v, want empty", it.Days)
	}
}

func TestChatContext(t *testing.T) {
	if got := ChatContext(nil); got != "General Travel Advice mode." {
		t.Errorf("nil trip context = %q", got)
	}
	trip := &model.Trip{
		Destination:  "Rishikesh",
		DurationDays: 4,
		TravelStyle:  []string{"Adventure", "Nature"},
		Budget:       model.Budget{Total: 30000},
	}
	want := "Destination: Rishikesh. Duration: 4 days. Budget: ₹30000. Style: Adventure, Nature."
	if got := ChatContext(trip); got != want {
		t.Errorf("ChatContext = %q, want %q", got, want)
	}
}

func TestFetchAll_PartialResults(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req InsightRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Category == CategorySafety {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"insight":{}}`)
	})

	set := c.FetchAll(context.Background(), model.Trip{Destination: "Mysore"})
	if n := calls.Load(); n != int64(len(Categories)) {
		t.Errorf("calls = %d, want %d", n, len(Categories))
	}
	if len(set.Insights) != len(Categories)-1 {
		t.Errorf("got %d insights, want %d", len(set.Insights), len(Categories)-1)
	}
	if set.Errors[CategorySafety] == nil || set.Err() == nil {
		t.Error("safety failure not recorded")
	}
	if set.Insights[CategoryBudget].Budget == nil {
		t.Error("budget insight not decoded")
	}
}
