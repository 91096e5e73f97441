package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles export of the index to SQLite for ad-hoc SQL queries.
type Store struct {
	db      *sql.DB
	dbPath  string
	baseDir string
}

// Open creates or opens a MisfitLens export database.
// By default, stores at .misfitlens/index.db relative to the given directory.
func Open(dir string) (*Store, error) {
	storeDir := filepath.Join(dir, ".misfitlens")
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return nil, fmt.Errorf("creating .misfitlens directory: %w", err)
	}

	dbPath := filepath.Join(storeDir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{
		db:      db,
		dbPath:  dbPath,
		baseDir: dir,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return s.dbPath
}

// Clear removes all data from the database (for re-exporting).
func (s *Store) Clear() error {
	tables := []string{"windows", "misfits", "paths", "stations", "events", "metadata"}
	for _, table := range tables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// InsertEvent inserts or updates an event origin.
func (s *Store) InsertEvent(ev *EventRow) error {
	_, err := s.db.Exec(`
		INSERT INTO events (event_id, lat, lon, depth_m, time, mag, utm_x, utm_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			depth_m = excluded.depth_m,
			time = excluded.time,
			mag = excluded.mag,
			utm_x = excluded.utm_x,
			utm_y = excluded.utm_y
	`, ev.EventID, ev.Lat, ev.Lon, ev.DepthM, ev.Time, ev.Mag, ev.UTMX, ev.UTMY)
	return err
}

// InsertStation inserts or updates a station coordinate record.
func (s *Store) InsertStation(sta *StationRow) error {
	_, err := s.db.Exec(`
		INSERT INTO stations (code, lat, lon, elv_m, utm_x, utm_y)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			elv_m = excluded.elv_m,
			utm_x = excluded.utm_x,
			utm_y = excluded.utm_y
	`, sta.Code, sta.Lat, sta.Lon, sta.ElvM, sta.UTMX, sta.UTMY)
	return err
}

// SetMetadata stores a key-value pair in the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetMetadata retrieves a value from the metadata table.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	return value, err
}

// Stats holds statistics about the exported data.
type Stats struct {
	EventCount   int       `json:"event_count"`
	StationCount int       `json:"station_count"`
	PathCount    int       `json:"path_count"`
	MisfitCount  int       `json:"misfit_count"`
	WindowCount  int       `json:"window_count"`
	ExportedAt   time.Time `json:"exported_at"`
}

// GetStats returns statistics about the exported data.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	rows := []struct {
		table string
		dest  *int
	}{
		{"events", &stats.EventCount},
		{"stations", &stats.StationCount},
		{"paths", &stats.PathCount},
		{"misfits", &stats.MisfitCount},
		{"windows", &stats.WindowCount},
	}

	for _, r := range rows {
		err := s.db.QueryRow("SELECT COUNT(*) FROM " + r.table).Scan(r.dest)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", r.table, err)
		}
	}

	// Get export timestamp from metadata
	if ts, err := s.GetMetadata("exported_at"); err == nil {
		stats.ExportedAt, _ = time.Parse(time.RFC3339, ts)
	}

	return stats, nil
}

// ExportMetadata holds metadata written to index.json alongside the database.
type ExportMetadata struct {
	Version      string    `json:"version"`
	ExportedAt   time.Time `json:"exported_at"`
	EventCount   int       `json:"event_count"`
	StationCount int       `json:"station_count"`
	MisfitCount  int       `json:"misfit_count"`
	WindowCount  int       `json:"window_count"`
	Events       []string  `json:"events"`
}

// WriteIndexJSON writes index.json next to the database for quick checks
// without opening SQLite.
func (s *Store) WriteIndexJSON() error {
	stats, err := s.GetStats()
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	rows, err := s.db.Query("SELECT event_id FROM events ORDER BY event_id")
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []string
	for rows.Next() {
		var eid string
		if err := rows.Scan(&eid); err != nil {
			return fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, eid)
	}

	meta := &ExportMetadata{
		Version:      "1",
		ExportedAt:   stats.ExportedAt,
		EventCount:   stats.EventCount,
		StationCount: stats.StationCount,
		MisfitCount:  stats.MisfitCount,
		WindowCount:  stats.WindowCount,
		Events:       events,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index.json: %w", err)
	}

	indexPath := filepath.Join(filepath.Dir(s.dbPath), "index.json")
	if err := os.WriteFile(indexPath, data, 0644); err != nil {
		return fmt.Errorf("writing index.json: %w", err)
	}

	return nil
}

// Tx returns the underlying database for advanced queries.
// Use with caution - prefer adding methods to Store instead.
func (s *Store) Tx() *sql.DB {
	return s.db
}

// BeginBatch starts a transaction for batch inserts.
// Call Commit() when done, or Rollback() on error.
func (s *Store) BeginBatch() (*BatchTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &BatchTx{tx: tx}, nil
}

// BatchTx wraps a transaction for batch operations.
type BatchTx struct {
	tx *sql.Tx
}

// Commit commits the batch transaction.
func (b *BatchTx) Commit() error {
	return b.tx.Commit()
}

// Rollback rolls back the batch transaction.
func (b *BatchTx) Rollback() error {
	return b.tx.Rollback()
}

// InsertEvent inserts an event origin within the batch.
func (b *BatchTx) InsertEvent(ev *EventRow) error {
	_, err := b.tx.Exec(`
		INSERT INTO events (event_id, lat, lon, depth_m, time, mag, utm_x, utm_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			depth_m = excluded.depth_m,
			time = excluded.time,
			mag = excluded.mag,
			utm_x = excluded.utm_x,
			utm_y = excluded.utm_y
	`, ev.EventID, ev.Lat, ev.Lon, ev.DepthM, ev.Time, ev.Mag, ev.UTMX, ev.UTMY)
	return err
}

// InsertStation inserts a station within the batch.
func (b *BatchTx) InsertStation(sta *StationRow) error {
	_, err := b.tx.Exec(`
		INSERT INTO stations (code, lat, lon, elv_m, utm_x, utm_y)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			elv_m = excluded.elv_m,
			utm_x = excluded.utm_x,
			utm_y = excluded.utm_y
	`, sta.Code, sta.Lat, sta.Lon, sta.ElvM, sta.UTMX, sta.UTMY)
	return err
}

// InsertPath inserts an event-station link within the batch.
func (b *BatchTx) InsertPath(p *PathRow) error {
	_, err := b.tx.Exec(`
		INSERT INTO paths (event_id, station, dist_km, baz)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id, station) DO UPDATE SET
			dist_km = excluded.dist_km,
			baz = excluded.baz
	`, p.EventID, p.Station, p.DistKM, p.Baz)
	return err
}

// InsertMisfit inserts a per-station misfit entry within the batch.
func (b *BatchTx) InsertMisfit(m *MisfitRow) error {
	_, err := b.tx.Exec(`
		INSERT INTO misfits (event_id, model, step, station, msft, nwin)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, model, step, station) DO UPDATE SET
			msft = excluded.msft,
			nwin = excluded.nwin
	`, m.EventID, m.Model, m.Step, m.Station, m.Msft, m.Nwin)
	return err
}

// InsertWindow inserts one misfit window within the batch.
func (b *BatchTx) InsertWindow(w *WindowRow) error {
	_, err := b.tx.Exec(`
		INSERT INTO windows (event_id, model, step, station, channel,
			cc_shift_sec, dlna, weight, max_cc, length_s, rel_start, rel_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.EventID, w.Model, w.Step, w.Station, w.Channel,
		w.CCShiftSec, w.DlnA, w.Weight, w.MaxCC, w.LengthS, w.RelStart, w.RelEnd)
	return err
}
