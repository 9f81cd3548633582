// Package store holds the trip list and its SQLite-backed session cache.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/tripmeter/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed trip caching between runs.
type Cache struct {
	db *sql.DB
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripmeter")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tripmeter")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "trips.db")
}

// OpenCache opens or creates the cache database at the given path.
func OpenCache(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveTrip stores a trip at the given list position, replacing any prior row.
func (c *Cache) SaveTrip(t model.Trip, position int) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding trip %s: %w", t.ID, err)
	}

	_, err = c.db.Exec(`INSERT OR REPLACE INTO trips
		(trip_id, destination, position, budget_total, currency, duration_days, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Destination, position, t.Budget.Total, t.Budget.Currency, t.DurationDays,
		string(data), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return err
}

// ReplaceAll rewrites every cached trip and the active id in one transaction.
func (c *Cache) ReplaceAll(trips []model.Trip, activeID string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM trips"); err != nil {
		return err
	}
	for i, t := range trips {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding trip %s: %w", t.ID, err)
		}
		_, err = tx.Exec(`INSERT INTO trips
			(trip_id, destination, position, budget_total, currency, duration_days, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Destination, i, t.Budget.Total, t.Budget.Currency, t.DurationDays,
			string(data), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, metaActiveTrip, activeID); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadTrips reads all cached trips in list order. Rows whose JSON no longer
// decodes are skipped and counted.
func (c *Cache) LoadTrips() ([]model.Trip, int, error) {
	rows, err := c.db.Query("SELECT trip_id, data FROM trips ORDER BY position, created_at")
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var trips []model.Trip
	skipped := 0
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, skipped, err
		}
		var t model.Trip
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			skipped++
			continue
		}
		if t.ID == "" {
			t.ID = id
		}
		trips = append(trips, t)
	}
	return trips, skipped, rows.Err()
}

// DeleteTrip removes a cached trip.
func (c *Cache) DeleteTrip(id string) error {
	_, err := c.db.Exec("DELETE FROM trips WHERE trip_id = ?", id)
	return err
}

// ActiveTripID returns the cached active trip id, or "" if none is set.
func (c *Cache) ActiveTripID() (string, error) {
	var id string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaActiveTrip).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// SetActiveTripID records the active trip id.
func (c *Cache) SetActiveTripID(id string) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, metaActiveTrip, id)
	return err
}

// TripCount returns the number of cached trips.
func (c *Cache) TripCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM trips").Scan(&count)
	return count, err
}

// LastUpdated returns the most recent trip update time, zero if empty.
func (c *Cache) LastUpdated() (time.Time, error) {
	var s sql.NullString
	if err := c.db.QueryRow("SELECT MAX(updated_at) FROM trips").Scan(&s); err != nil {
		return time.Time{}, err
	}
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, _ := time.Parse(time.RFC3339Nano, s.String)
	return t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return time.Now().UTC().Format(time.RFC3339Nano)
	}
	return t.UTC().Format(time.RFC3339Nano)
}
