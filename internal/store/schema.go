package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trips (
    trip_id              TEXT PRIMARY KEY,
    destination          TEXT NOT NULL,
    position             INTEGER NOT NULL,
    budget_total         REAL,
    currency             TEXT,
    duration_days        INTEGER,
    data                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trips_position ON trips(position);
CREATE INDEX IF NOT EXISTS idx_trips_destination ON trips(destination);
`

const metaActiveTrip = "active_trip_id"
