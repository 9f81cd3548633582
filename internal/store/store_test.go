package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func mustAdd(t *testing.T, s *Store, dest string) model.Trip {
	t.Helper()
	trip, err := s.Add(model.Trip{Destination: dest, DurationDays: 3})
	if err != nil {
		t.Fatalf("Add(%s): %v", dest, err)
	}
	return trip
}

func TestAdd_AssignsDefaultsAndActivates(t *testing.T) {
	s := New()
	trip := mustAdd(t, s, "Goa")

	if trip.ID == "" {
		t.Fatal("Add did not assign an id")
	}
	if trip.SafetyScore != DefaultSafetyScore || trip.EcoScore != DefaultEcoScore {
		t.Errorf("scores = %.1f/%.1f, want defaults", trip.SafetyScore, trip.EcoScore)
	}
	if trip.Budget.Currency != model.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", trip.Budget.Currency, model.DefaultCurrency)
	}
	if s.ActiveID() != trip.ID {
		t.Errorf("ActiveID = %q, want new trip %q", s.ActiveID(), trip.ID)
	}

	second := mustAdd(t, s, "Manali")
	if s.ActiveID() != second.ID {
		t.Error("second Add did not become active")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestDelete_ActiveFallsBackToFirst(t *testing.T) {
	s := New()
	a := mustAdd(t, s, "A")
	b := mustAdd(t, s, "B")
	c := mustAdd(t, s, "C")

	if err := s.Delete(c.ID); err != nil {
		t.Fatal(err)
	}
	if s.ActiveID() != a.ID {
		t.Errorf("after deleting active, ActiveID = %q, want first trip %q", s.ActiveID(), a.ID)
	}

	if err := s.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	if s.ActiveID() != a.ID {
		t.Errorf("deleting inactive trip changed ActiveID to %q", s.ActiveID())
	}

	if err := s.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Active(); ok {
		t.Error("empty store still reports an active trip")
	}
}

func TestGet_NotFoundAndPrefix(t *testing.T) {
	s := New()
	trip := mustAdd(t, s, "Kyoto")

	if _, err := s.Get("nope"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("Get(nope) err = %v, want ErrTripNotFound", err)
	}
	got, err := s.Get(trip.ID[:8])
	if err != nil {
		t.Fatalf("Get(prefix): %v", err)
	}
	if got.ID != trip.ID {
		t.Errorf("Get(prefix) = %q, want %q", got.ID, trip.ID)
	}
	if err := s.SetActive("abc"); !errors.Is(err, ErrTripNotFound) {
		t.Errorf("SetActive(short) err = %v, want ErrTripNotFound", err)
	}
}

func TestUpdate_KeepsIdentity(t *testing.T) {
	s := New()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	trip := mustAdd(t, s, "Hampi")

	clock = clock.Add(time.Hour)
	got, err := s.Update(trip.ID, func(tr *model.Trip) {
		tr.ID = "hijack"
		tr.Budget.Total = 25000
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != trip.ID || !got.CreatedAt.Equal(trip.CreatedAt) {
		t.Errorf("Update changed identity: %+v", got)
	}
	if got.Budget.Total != 25000 {
		t.Errorf("Budget.Total = %.0f, want 25000", got.Budget.Total)
	}
	if !got.UpdatedAt.Equal(clock) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock)
	}
}

func TestSavePlan_UpdatesActiveDestination(t *testing.T) {
	s := New()
	orig := mustAdd(t, s, "Jaipur")

	plan := model.Trip{
		Destination:  "  jaipur ",
		DurationDays: 5,
		Budget:       model.Budget{Total: 40000},
	}
	got, updated, err := s.SavePlan(plan, false)
	if err != nil {
		t.Fatal(err)
	}
	if !updated || got.ID != orig.ID {
		t.Fatalf("SavePlan = (%q, %v), want in-place update of %q", got.ID, updated, orig.ID)
	}
	if got.DurationDays != 5 || got.Budget.Total != 40000 || got.Budget.Currency != model.DefaultCurrency {
		t.Errorf("updated trip = %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	got, updated, err = s.SavePlan(plan, true)
	if err != nil {
		t.Fatal(err)
	}
	if updated || got.ID == orig.ID || s.Len() != 2 {
		t.Errorf("forceNew did not add a trip: updated=%v len=%d", updated, s.Len())
	}

	other, updated, err := s.SavePlan(model.Trip{Destination: "Udaipur"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if updated || s.ActiveID() != other.ID {
		t.Error("new destination was not added as the active trip")
	}
}

func TestOpen_WritesThroughToCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.db")
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatal(err)
	}

	s, err := Open(cache)
	if err != nil {
		t.Fatal(err)
	}
	a := mustAdd(t, s, "Leh")
	b := mustAdd(t, s, "Coorg")
	if err := s.SetActive(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	cache, err = OpenCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	reopened, err := Open(cache)
	if err != nil {
		t.Fatal(err)
	}
	trips := reopened.Trips()
	if len(trips) != 2 || trips[0].ID != a.ID || trips[1].ID != b.ID {
		t.Fatalf("reopened trips = %+v, want [%s %s]", trips, a.ID, b.ID)
	}
	if reopened.ActiveID() != a.ID {
		t.Errorf("reopened ActiveID = %q, want %q", reopened.ActiveID(), a.ID)
	}
}

func TestMutationsLeaveStoreUnchangedOnCacheFailure(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "trips.db"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Open(cache)
	if err != nil {
		t.Fatal(err)
	}
	a := mustAdd(t, s, "Leh")
	b := mustAdd(t, s, "Coorg")
	_ = cache.Close() // every later write fails

	if _, err := s.Add(model.Trip{Destination: "Hampi"}); err == nil {
		t.Error("Add succeeded against a closed cache")
	}
	if _, err := s.Update(a.ID, func(t *model.Trip) { t.Destination = "Ladakh" }); err == nil {
		t.Error("Update succeeded against a closed cache")
	}
	if err := s.Delete(b.ID); err == nil {
		t.Error("Delete succeeded against a closed cache")
	}
	if err := s.SetActive(a.ID); err == nil {
		t.Error("SetActive succeeded against a closed cache")
	}
	if _, _, err := s.SavePlan(model.Trip{Destination: "coorg", DurationDays: 9}, false); err == nil {
		t.Error("SavePlan succeeded against a closed cache")
	}

	trips := s.Trips()
	if len(trips) != 2 || trips[0].Destination != "Leh" || trips[1].Destination != "Coorg" {
		t.Fatalf("trips changed after failed writes: %+v", trips)
	}
	if trips[1].DurationDays != 3 {
		t.Errorf("SavePlan leaked into the store: %d days", trips[1].DurationDays)
	}
	if s.ActiveID() != b.ID {
		t.Errorf("ActiveID = %q, want %q", s.ActiveID(), b.ID)
	}
}
