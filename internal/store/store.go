package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// ErrTripNotFound is returned when no trip matches an id.
var ErrTripNotFound = errors.New("trip not found")

// ErrAmbiguousID is returned when a short id prefix matches more than one trip.
var ErrAmbiguousID = errors.New("trip id prefix is ambiguous")

// Defaults for new trips until an insight refines them.
const (
	DefaultSafetyScore = 8.0
	DefaultEcoScore    = 5.0
)

// minPrefixLen is the shortest id prefix Get accepts.
const minPrefixLen = 4

// Store owns the ordered trip list and the active trip selection.
// It is safe for concurrent use; the last write wins. A mutation whose cache
// write fails leaves the store unchanged. Returned trips share itinerary
// slices with the store and must be treated as read-only.
type Store struct {
	mu       sync.RWMutex
	trips    []model.Trip
	activeID string
	cache    *Cache
	now      func() time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{now: time.Now}
}

// Open returns a store seeded from the cache. Every later mutation is
// written through to the cache.
func Open(cache *Cache) (*Store, error) {
	s := New()
	if cache == nil {
		return s, nil
	}

	trips, _, err := cache.LoadTrips()
	if err != nil {
		return nil, fmt.Errorf("loading cached trips: %w", err)
	}
	active, err := cache.ActiveTripID()
	if err != nil {
		return nil, fmt.Errorf("reading active trip: %w", err)
	}

	s.trips = trips
	s.cache = cache
	if s.indexOf(active) >= 0 {
		s.activeID = active
	} else if len(trips) > 0 {
		s.activeID = trips[0].ID
	}
	return s, nil
}

// Trips returns a snapshot of all trips in insertion order.
func (s *Store) Trips() []model.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Trip, len(s.trips))
	copy(out, s.trips)
	return out
}

// Len returns the number of trips.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trips)
}

// ActiveID returns the active trip id, or "" if none.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the active trip.
func (s *Store) Active() (model.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.trips[i], true
	}
	return model.Trip{}, false
}

// Get returns the trip with the given id. A unique prefix of at least four
// characters is accepted.
func (s *Store) Get(id string) (model.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.resolve(id)
	if err != nil {
		return model.Trip{}, err
	}
	return s.trips[i], nil
}

// Add appends a trip and makes it active. A new id is assigned, timestamps
// are set and missing scores and currency get their defaults.
func (s *Store) Add(t model.Trip) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.SafetyScore == 0 {
		t.SafetyScore = DefaultSafetyScore
	}
	if t.EcoScore == 0 {
		t.EcoScore = DefaultEcoScore
	}
	if t.Budget.Currency == "" {
		t.Budget.Currency = model.DefaultCurrency
	}

	next := append(s.cloneTrips(), t)
	if err := s.commit(next, t.ID); err != nil {
		return model.Trip{}, err
	}
	return t, nil
}

// Update applies fn to the trip with the given id. The id and creation time
// cannot be changed by fn.
func (s *Store) Update(id string, fn func(*model.Trip)) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return model.Trip{}, err
	}
	t := s.trips[i]
	fn(&t)
	t.ID = s.trips[i].ID
	t.CreatedAt = s.trips[i].CreatedAt
	t.UpdatedAt = s.now().UTC()
	next := s.cloneTrips()
	next[i] = t
	if err := s.commit(next, s.activeID); err != nil {
		return model.Trip{}, err
	}
	return t, nil
}

// Delete removes a trip. When the active trip is deleted the first remaining
// trip becomes active; an empty store has no active trip.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return err
	}
	removed := s.trips[i].ID
	next := make([]model.Trip, 0, len(s.trips)-1)
	next = append(next, s.trips[:i]...)
	next = append(next, s.trips[i+1:]...)

	active := s.activeID
	switch {
	case len(next) == 0:
		active = ""
	case active == removed:
		active = next[0].ID
	}
	return s.commit(next, active)
}

// SetActive selects the active trip.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolve(id)
	if err != nil {
		return err
	}
	return s.commit(s.trips, s.trips[i].ID)
}

// SavePlan stores a freshly planned trip. Unless forceNew is set, a plan for
// the active trip's destination (case-insensitive) replaces that trip's
// duration, style, budget and itinerary in place, keeping its id. Otherwise
// the plan is added as a new active trip. The bool reports an in-place update.
func (s *Store) SavePlan(t model.Trip, forceNew bool) (model.Trip, bool, error) {
	if !forceNew {
		s.mu.Lock()
		i := s.indexOf(s.activeID)
		if i >= 0 && strings.EqualFold(strings.TrimSpace(s.trips[i].Destination), strings.TrimSpace(t.Destination)) {
			cur := s.trips[i]
			cur.DurationDays = t.DurationDays
			cur.TravelStyle = t.TravelStyle
			cur.Budget = t.Budget
			if cur.Budget.Currency == "" {
				cur.Budget.Currency = model.DefaultCurrency
			}
			cur.Itinerary = t.Itinerary
			cur.UpdatedAt = s.now().UTC()
			next := s.cloneTrips()
			next[i] = cur
			err := s.commit(next, s.activeID)
			s.mu.Unlock()
			if err != nil {
				return model.Trip{}, true, err
			}
			return cur, true, nil
		}
		s.mu.Unlock()
	}

	added, err := s.Add(t)
	return added, false, err
}

// indexOf returns the position of the exact id, or -1. Callers hold mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.trips {
		if s.trips[i].ID == id {
			return i
		}
	}
	return -1
}

// resolve maps an exact id or unique prefix to a position. Callers hold mu.
func (s *Store) resolve(id string) (int, error) {
	id = strings.TrimSpace(id)
	if i := s.indexOf(id); i >= 0 {
		return i, nil
	}
	if len(id) < minPrefixLen {
		return -1, fmt.Errorf("%w: %q", ErrTripNotFound, id)
	}

	found := -1
	for i := range s.trips {
		if strings.HasPrefix(s.trips[i].ID, id) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrTripNotFound, id)
	}
	return found, nil
}

// commit writes trips and activeID through to the cache and only then
// installs them. Callers hold mu.
func (s *Store) commit(trips []model.Trip, activeID string) error {
	if s.cache != nil {
		if err := s.cache.ReplaceAll(trips, activeID); err != nil {
			return fmt.Errorf("writing trip cache: %w", err)
		}
	}
	s.trips = trips
	s.activeID = activeID
	return nil
}

// cloneTrips copies the list so a candidate can be built without touching
// the installed one. Callers hold mu.
func (s *Store) cloneTrips() []model.Trip {
	out := make([]model.Trip, len(s.trips), len(s.trips)+1)
	copy(out, s.trips)
	return out
}
