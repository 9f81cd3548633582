// Package daemon provides the long-running trip budget watcher.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/store"
)

var (
	tripBudget = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tripmeter_trip_budget_total",
		Help: "Effective budget total per trip",
	}, []string{"trip_id", "destination"})
	tripSpend = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tripmeter_trip_estimated_spend",
		Help: "Estimated spend parsed from the itinerary per trip",
	}, []string{"trip_id", "destination"})
	tripSpentPct = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tripmeter_trip_spent_percentage",
		Help: "Share of the budget consumed per trip, clamped to 100",
	}, []string{"trip_id", "destination"})
	tripsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tripmeter_trips",
		Help: "Number of trips in the cache",
	})
	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripmeter_daemon_polls_total",
		Help: "The total number of cache polls",
	})
	pollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripmeter_daemon_poll_errors_total",
		Help: "The total number of failed cache polls",
	})
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
	EventAlert       = "budget_alert"
)

// Loader returns the current trips and the active trip id.
type Loader func() ([]model.Trip, string, error)

// Config controls the daemon runtime behavior.
type Config struct {
	CachePath    string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Options      pipeline.Options

	// Load overrides reading the trip cache at CachePath.
	Load   Loader
	Logger *slog.Logger
}

// TripSnapshot is the budget state of one trip.
type TripSnapshot struct {
	TripID          string  `json:"trip_id"`
	Destination     string  `json:"destination"`
	Currency        string  `json:"currency"`
	Total           float64 `json:"total"`
	EstimatedSpend  float64 `json:"estimated_spend"`
	SpentPercentage float64 `json:"spent_percentage"`
	Remaining       float64 `json:"remaining"`
	Health          string  `json:"health"`
	Overspent       bool    `json:"overspent,omitempty"`
	Activities      int     `json:"activities"`
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At           time.Time      `json:"at"`
	Trips        int            `json:"trips"`
	ActiveTripID string         `json:"active_trip_id,omitempty"`
	Activities   int            `json:"activities"`
	TotalBudget  float64        `json:"total_budget"`
	TotalSpend   float64        `json:"total_spend"`
	Overspent    int            `json:"overspent"`
	Critical     int            `json:"critical"`
	PerTrip      []TripSnapshot `json:"per_trip"`
}

// TripDelta is the change in one trip between polls.
type TripDelta struct {
	TripID      string  `json:"trip_id"`
	Destination string  `json:"destination"`
	Spend       float64 `json:"spend"`
	Total       float64 `json:"total"`
	Health      string  `json:"health"`
	PrevHealth  string  `json:"prev_health,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Trips       int         `json:"trips"`
	Activities  int         `json:"activities"`
	TotalBudget float64     `json:"total_budget"`
	TotalSpend  float64     `json:"total_spend"`
	Added       []string    `json:"added,omitempty"`
	Removed     []string    `json:"removed,omitempty"`
	Changed     []TripDelta `json:"changed,omitempty"`
	ActiveTrip  bool        `json:"active_trip_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Trips == 0 &&
		d.Activities == 0 &&
		d.TotalBudget == 0 &&
		d.TotalSpend == 0 &&
		len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Changed) == 0 &&
		!d.ActiveTrip
}

// Event is emitted whenever the budget snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	CachePath       string    `json:"cache_path"`
	Summary         Snapshot  `json:"summary"`
	Previous        *Snapshot `json:"previous,omitempty"` // summary before the last change
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	previous    *Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = store.CachePath()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	if s.cfg.Load == nil {
		s.cfg.Load = s.loadFromCache
	}
	return s
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval.String(), "cache", s.cfg.CachePath)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("daemon shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	pollsTotal.Inc()
	trips, activeID, err := s.cfg.Load()
	if err != nil {
		pollErrors.Inc()
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("poll failed", "err", err)
		return
	}

	now := time.Now()
	snap := buildSnapshot(trips, activeID, s.cfg.Options, now)
	recordMetrics(snap)

	var events []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		events = append(events, Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		})
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.previous = &prev
			s.nextEventID++
			events = append(events, Event{
				ID:        s.nextEventID,
				Type:      EventBudgetDelta,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			})
		}
		if alerts := worsened(delta.Changed); len(alerts) > 0 {
			s.nextEventID++
			events = append(events, Event{
				ID:        s.nextEventID,
				Type:      EventAlert,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     Delta{Changed: alerts},
			})
		}
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.log.Info("event", "type", ev.Type, "id", ev.ID, "trips", ev.Snapshot.Trips, "total_spend", ev.Snapshot.TotalSpend)
		s.publishEvent(ev)
	}
}

func (s *Service) loadFromCache() ([]model.Trip, string, error) {
	cache, err := store.OpenCache(s.cfg.CachePath)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = cache.Close() }()

	trips, skipped, err := cache.LoadTrips()
	if err != nil {
		return nil, "", err
	}
	if skipped > 0 {
		s.log.Warn("skipped unreadable trips", "count", skipped)
	}
	activeID, err := cache.ActiveTripID()
	if err != nil {
		return nil, "", err
	}
	return trips, activeID, nil
}

func buildSnapshot(trips []model.Trip, activeID string, opts pipeline.Options, at time.Time) Snapshot {
	res := pipeline.AnalyzeAll(trips, opts, nil)
	snap := Snapshot{
		At:           at,
		Trips:        res.TotalTrips,
		ActiveTripID: activeID,
		Activities:   res.Activities,
		TotalBudget:  res.TotalBudget,
		TotalSpend:   res.TotalSpend,
		Overspent:    res.Overspent,
		Critical:     res.Critical,
		PerTrip:      make([]TripSnapshot, 0, len(res.Breakdowns)),
	}
	for i, bd := range res.Breakdowns {
		m := bd.Metrics
		snap.PerTrip = append(snap.PerTrip, TripSnapshot{
			TripID:          bd.TripID,
			Destination:     bd.Destination,
			Currency:        bd.Currency,
			Total:           m.Total,
			EstimatedSpend:  m.EstimatedSpend,
			SpentPercentage: m.SpentPercentage,
			Remaining:       m.Remaining,
			Health:          m.Health.String(),
			Overspent:       bd.Overspent,
			Activities:      trips[i].Itinerary.ActivityCount(),
		})
	}
	return snap
}

func recordMetrics(snap Snapshot) {
	tripBudget.Reset()
	tripSpend.Reset()
	tripSpentPct.Reset()
	for _, t := range snap.PerTrip {
		tripBudget.WithLabelValues(t.TripID, t.Destination).Set(t.Total)
		tripSpend.WithLabelValues(t.TripID, t.Destination).Set(t.EstimatedSpend)
		tripSpentPct.WithLabelValues(t.TripID, t.Destination).Set(t.SpentPercentage)
	}
	tripsTracked.Set(float64(snap.Trips))
}

func diffSnapshots(prev, curr Snapshot) Delta {
	d := Delta{
		Trips:       curr.Trips - prev.Trips,
		Activities:  curr.Activities - prev.Activities,
		TotalBudget: curr.TotalBudget - prev.TotalBudget,
		TotalSpend:  curr.TotalSpend - prev.TotalSpend,
		ActiveTrip:  curr.ActiveTripID != prev.ActiveTripID,
	}

	before := make(map[string]TripSnapshot, len(prev.PerTrip))
	for _, t := range prev.PerTrip {
		before[t.TripID] = t
	}
	seen := make(map[string]bool, len(curr.PerTrip))
	for _, t := range curr.PerTrip {
		seen[t.TripID] = true
		p, ok := before[t.TripID]
		if !ok {
			d.Added = append(d.Added, t.TripID)
			continue
		}
		if p.EstimatedSpend != t.EstimatedSpend || p.Total != t.Total || p.Health != t.Health {
			d.Changed = append(d.Changed, TripDelta{
				TripID:      t.TripID,
				Destination: t.Destination,
				Spend:       t.EstimatedSpend - p.EstimatedSpend,
				Total:       t.Total - p.Total,
				Health:      t.Health,
				PrevHealth:  p.Health,
			})
		}
	}
	for id := range before {
		if !seen[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Removed)
	return d
}

var healthRank = map[string]int{
	model.HealthOK.String():       0,
	model.HealthWarning.String():  1,
	model.HealthCritical.String(): 2,
}

// worsened keeps the changes whose health level went up.
func worsened(changes []TripDelta) []TripDelta {
	var out []TripDelta
	for _, c := range changes {
		if healthRank[c.Health] > healthRank[c.PrevHealth] {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		CachePath:       s.cfg.CachePath,
		Summary:         s.snapshot,
		Previous:        s.previous,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
