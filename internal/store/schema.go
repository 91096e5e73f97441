package store

// schema contains the SQL statements to create the MisfitLens export schema.
const schema = `
-- Events table
CREATE TABLE IF NOT EXISTS events (
    event_id TEXT PRIMARY KEY,
    lat      REAL NOT NULL,
    lon      REAL NOT NULL,
    depth_m  REAL NOT NULL,
    time     TEXT NOT NULL,
    mag      REAL NOT NULL,
    utm_x    REAL NOT NULL,
    utm_y    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_mag ON events(mag);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(time);

-- Stations table
CREATE TABLE IF NOT EXISTS stations (
    code  TEXT PRIMARY KEY,
    lat   REAL NOT NULL,
    lon   REAL NOT NULL,
    elv_m REAL NOT NULL,
    utm_x REAL NOT NULL,
    utm_y REAL NOT NULL
);

-- Source-receiver paths table
CREATE TABLE IF NOT EXISTS paths (
    event_id TEXT NOT NULL,
    station  TEXT NOT NULL,
    dist_km  REAL NOT NULL,
    baz      REAL NOT NULL,
    PRIMARY KEY (event_id, station),
    FOREIGN KEY (event_id) REFERENCES events(event_id),
    FOREIGN KEY (station) REFERENCES stations(code)
);

CREATE INDEX IF NOT EXISTS idx_paths_station ON paths(station);

-- Misfits table, one row per (event, model, step, station)
CREATE TABLE IF NOT EXISTS misfits (
    event_id TEXT NOT NULL,
    model    TEXT NOT NULL,
    step     TEXT NOT NULL,
    station  TEXT NOT NULL,
    msft     REAL NOT NULL,
    nwin     INTEGER NOT NULL,
    PRIMARY KEY (event_id, model, step, station),
    FOREIGN KEY (event_id) REFERENCES events(event_id)
);

CREATE INDEX IF NOT EXISTS idx_misfits_model_step ON misfits(model, step);
CREATE INDEX IF NOT EXISTS idx_misfits_station ON misfits(station);

-- Windows table, one row per misfit window
CREATE TABLE IF NOT EXISTS windows (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id     TEXT NOT NULL,
    model        TEXT NOT NULL,
    step         TEXT NOT NULL,
    station      TEXT NOT NULL,
    channel      TEXT NOT NULL,
    cc_shift_sec REAL NOT NULL,
    dlna         REAL NOT NULL,
    weight       REAL NOT NULL,
    max_cc       REAL NOT NULL,
    length_s     REAL NOT NULL,
    rel_start    REAL NOT NULL,
    rel_end      REAL NOT NULL,
    FOREIGN KEY (event_id) REFERENCES events(event_id)
);

CREATE INDEX IF NOT EXISTS idx_windows_model_step ON windows(model, step);
CREATE INDEX IF NOT EXISTS idx_windows_station ON windows(station);
CREATE INDEX IF NOT EXISTS idx_windows_event ON windows(event_id);

-- Metadata table for export info
CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT
);
`
