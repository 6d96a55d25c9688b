// Package persistence provides SQLite-based storage for the tile grid and
// the service event log. Core path-service state (graph, cache, queue) is
// rebuilt from tiles on startup and never persisted.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexpath/internal/hexgrid"
	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/terrain"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tiles (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		walkable INTEGER NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		hexes_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS service_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveTiles writes the full tile grid to the database (full replace).
func (db *DB) SaveTiles(m *terrain.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tiles"); err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO tiles (q, r, walkable) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tile := range m.AllTiles() {
		walkable := 0
		if tile.Walkable {
			walkable = 1
		}
		if _, err := stmt.Exec(tile.Coord.Q, tile.Coord.R, walkable); err != nil {
			return fmt.Errorf("insert tile %v: %w", tile.Coord, err)
		}
	}

	if err := saveMetaTx(tx, "radius", strconv.Itoa(m.Radius())); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateTile writes a single tile's walkability.
func (db *DB) UpdateTile(c hexgrid.HexCoord, walkable bool) error {
	w := 0
	if walkable {
		w = 1
	}
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO tiles (q, r, walkable) VALUES (?, ?, ?)",
		c.Q, c.R, w,
	)
	return err
}

// HasTiles reports whether a tile grid has been saved.
func (db *DB) HasTiles() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM tiles"); err != nil {
		return false
	}
	return count > 0
}

// LoadTiles reads the saved tile grid.
func (db *DB) LoadTiles() (*terrain.Map, error) {
	radiusStr, err := db.GetMeta("radius")
	if err != nil {
		return nil, fmt.Errorf("load radius: %w", err)
	}
	radius, err := strconv.Atoi(radiusStr)
	if err != nil {
		return nil, fmt.Errorf("parse radius %q: %w", radiusStr, err)
	}

	rows, err := db.conn.Queryx("SELECT q, r, walkable FROM tiles")
	if err != nil {
		return nil, fmt.Errorf("select tiles: %w", err)
	}
	defer rows.Close()

	m := terrain.NewMap(radius)
	for rows.Next() {
		var q, r, walkable int
		if err := rows.Scan(&q, &r, &walkable); err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		m.SetTile(hexgrid.HexCoord{Q: q, R: r}, walkable == 1)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slog.Info("tiles loaded", "count", m.TileCount(), "radius", radius)
	return m, nil
}

// EventRecord is one row of the service event log.
type EventRecord struct {
	EventID string `db:"event_id" json:"event_id"`
	Tick    uint64 `db:"tick" json:"tick"`
	Kind    string `db:"kind" json:"kind"`
	Hexes   string `db:"hexes_json" json:"hexes"`
}

// AppendEvent records a service notification at the given tick.
func (db *DB) AppendEvent(tick uint64, ev nav.Event) error {
	hexes, err := json.Marshal(ev.Hexes)
	if err != nil {
		return fmt.Errorf("marshal hexes: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO events (event_id, tick, kind, hexes_json) VALUES (?, ?, ?, ?)",
		ev.ID.String(), tick, string(ev.Kind), string(hexes),
	)
	return err
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]EventRecord, error) {
	var events []EventRecord
	err := db.conn.Select(&events,
		"SELECT event_id, tick, kind, hexes_json FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in service metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO service_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

func saveMetaTx(tx *sqlx.Tx, key, value string) error {
	_, err := tx.Exec(
		"INSERT OR REPLACE INTO service_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM service_meta WHERE key = ?", key)
	return value, err
}
