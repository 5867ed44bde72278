// Package store persists one region's extracted records into a single
// SQLite database file carrying both query indexes: an FTS5 inverted text
// index over place name fields and an R*Tree spatial index over POI
// coordinates.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gotak/addrdb/pkg/extract"

	_ "modernc.org/sqlite"
)

// SchemaVersion is bumped whenever the relation layout changes. Downstream
// consumers refuse stores with an unknown version.
const SchemaVersion = 2

var (
	ErrNotFound   = errors.New("record not found")
	ErrNotValid   = errors.New("store is partial or has an unknown schema")
	ErrBadVersion = errors.New("store has an unsupported schema version")
)

const schemaDDL = `
CREATE TABLE places (
	id INTEGER PRIMARY KEY,
	osm_id INTEGER,
	osm_type TEXT,
	lat REAL,
	lon REAL,
	name TEXT,
	display_name TEXT,
	type TEXT,
	street TEXT,
	housenumber TEXT,
	city TEXT,
	postcode TEXT,
	state TEXT,
	country TEXT
);

CREATE VIRTUAL TABLE places_fts USING fts5(
	name,
	display_name,
	street,
	city,
	postcode,
	content='places',
	content_rowid='id'
);

CREATE TABLE pois (
	id INTEGER PRIMARY KEY,
	osm_id INTEGER,
	osm_type TEXT,
	lat REAL,
	lon REAL,
	name TEXT,
	category TEXT,
	address TEXT,
	phone TEXT,
	website TEXT,
	opening_hours TEXT
);

CREATE VIRTUAL TABLE pois_rtree USING rtree(
	id,
	min_lat, max_lat,
	min_lon, max_lon
);

CREATE TABLE metadata (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

// Build creates a fresh store at path from one region's complete record
// batch, replacing any prior file at the same path. The bulk load, index
// population and metadata all happen in a single transaction; the final
// compaction (VACUUM + ANALYZE) runs afterwards and only then is the
// `finalized` metadata key written, which is the marker Verify checks to
// tell a complete store from a partial one left by a mid-write crash.
//
// Concurrent builds against the same path are not supported; the caller
// serializes them.
func Build(path, region string, places []extract.Place, pois []extract.POI) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replace prior store: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin bulk load: %w", err)
	}
	defer tx.Rollback()

	if err := loadPlaces(tx, places); err != nil {
		return err
	}
	if err := loadPOIs(tx, pois); err != nil {
		return err
	}
	if err := writeMetadata(tx, region, len(places), len(pois)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk load: %w", err)
	}

	// compaction pass; the finalized marker goes in last
	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("compact store: %w", err)
	}
	if _, err := db.Exec("ANALYZE"); err != nil {
		return fmt.Errorf("analyze store: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('finalized', '1')`); err != nil {
		return fmt.Errorf("finalize store: %w", err)
	}

	return nil
}

func loadPlaces(tx *sql.Tx, places []extract.Place) error {
	stmt, err := tx.Prepare(`
		INSERT INTO places (osm_id, osm_type, lat, lon, name, display_name, type,
			street, housenumber, city, postcode, state, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare place insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range places {
		_, err := stmt.Exec(p.OSMID, string(p.OSMType), p.Lat, p.Lon, p.Name, p.DisplayName,
			p.Type, p.Street, p.Housenumber, p.City, p.Postcode, p.State, p.Country)
		if err != nil {
			return fmt.Errorf("insert place osm_id=%d: %w", p.OSMID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO places_fts (rowid, name, display_name, street, city, postcode)
		SELECT id, name, display_name, street, city, postcode FROM places`)
	if err != nil {
		return fmt.Errorf("populate text index: %w", err)
	}

	if _, err := tx.Exec(`CREATE INDEX idx_places_type ON places(type)`); err != nil {
		return fmt.Errorf("index places by type: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX idx_places_city ON places(city)`); err != nil {
		return fmt.Errorf("index places by city: %w", err)
	}
	return nil
}

func loadPOIs(tx *sql.Tx, pois []extract.POI) error {
	stmt, err := tx.Prepare(`
		INSERT INTO pois (osm_id, osm_type, lat, lon, name, category, address, phone, website, opening_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare poi insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pois {
		_, err := stmt.Exec(p.OSMID, string(p.OSMType), p.Lat, p.Lon, p.Name, p.Category,
			p.Address, p.Phone, p.Website, p.OpeningHours)
		if err != nil {
			return fmt.Errorf("insert poi osm_id=%d: %w", p.OSMID, err)
		}
	}

	// degenerate boxes (min=max) so both exact-point and range queries work
	_, err = tx.Exec(`
		INSERT INTO pois_rtree (id, min_lat, max_lat, min_lon, max_lon)
		SELECT id, lat, lat, lon, lon FROM pois`)
	if err != nil {
		return fmt.Errorf("populate spatial index: %w", err)
	}

	if _, err := tx.Exec(`CREATE INDEX idx_pois_category ON pois(category)`); err != nil {
		return fmt.Errorf("index pois by category: %w", err)
	}
	return nil
}

func writeMetadata(tx *sql.Tx, region string, placeCount, poiCount int) error {
	rows := [][2]string{
		{"created", time.Now().Format(time.RFC3339)},
		{"place_count", strconv.Itoa(placeCount)},
		{"poi_count", strconv.Itoa(poiCount)},
		{"region", region},
		{"schema_version", strconv.Itoa(SchemaVersion)},
	}
	for _, kv := range rows {
		if _, err := tx.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("write metadata %s: %w", kv[0], err)
		}
	}
	return nil
}
