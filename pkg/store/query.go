package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/geo"
)

// Store is a read handle over one built region database.
type Store struct {
	db   *sql.DB
	path string
}

// Metadata is the fixed key/value record every store carries.
type Metadata struct {
	Created       string
	PlaceCount    int
	POICount      int
	Region        string
	SchemaVersion int
	Finalized     bool
}

// Bounds is a latitude/longitude bounding box for spatial range queries.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// GroupCount is one aggregation bucket (a place type or a POI category).
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Open opens an existing store for querying.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Verify opens the store at path and checks that it was fully built: the
// schema version must be the supported one and the trailing finalized
// marker, written only after compaction, must be present. A store failing
// this check must not be treated as reusable cached output.
func Verify(path string) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	meta, err := s.Metadata()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotValid, err)
	}
	if meta.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: version %d", ErrBadVersion, meta.SchemaVersion)
	}
	if !meta.Finalized {
		return fmt.Errorf("%w: missing finalized marker", ErrNotValid)
	}
	return nil
}

// Metadata reads the store's metadata relation.
func (s *Store) Metadata() (Metadata, error) {
	rows, err := s.db.Query(`SELECT key, value FROM metadata`)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	defer rows.Close()

	meta := Metadata{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Metadata{}, fmt.Errorf("read metadata: %w", err)
		}
		switch key {
		case "created":
			meta.Created = value
		case "place_count":
			meta.PlaceCount, _ = strconv.Atoi(value)
		case "poi_count":
			meta.POICount, _ = strconv.Atoi(value)
		case "region":
			meta.Region = value
		case "schema_version":
			meta.SchemaVersion, _ = strconv.Atoi(value)
		case "finalized":
			meta.Finalized = value == "1"
		}
	}
	return meta, rows.Err()
}

const placeColumns = `id, osm_id, osm_type, lat, lon, name, display_name, type,
	street, housenumber, city, postcode, state, country`

const poiColumns = `id, osm_id, osm_type, lat, lon, name, category, address,
	phone, website, opening_hours`

// qualified prefixes every column in a column list with a table alias, for
// queries joining the primary relation with one of its indexes.
func qualified(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

// PlaceByID fetches one place by its storage-assigned identifier.
func (s *Store) PlaceByID(id int64) (extract.Place, error) {
	row := s.db.QueryRow(`SELECT `+placeColumns+` FROM places WHERE id = ?`, id)
	return scanPlace(row)
}

// POIByID fetches one POI by its storage-assigned identifier.
func (s *Store) POIByID(id int64) (extract.POI, error) {
	row := s.db.QueryRow(`SELECT `+poiColumns+` FROM pois WHERE id = ?`, id)
	return scanPOI(row)
}

// SearchPlaces runs a full-text query over the place name fields. The query
// uses FTS5 match syntax; append * to a term for prefix search. Results
// come back ranked.
func (s *Store) SearchPlaces(query string, limit int) ([]extract.Place, error) {
	rows, err := s.db.Query(`
		SELECT `+qualified(placeColumns, "p")+`
		FROM places_fts f
		JOIN places p ON p.id = f.rowid
		WHERE places_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	return scanPlaces(rows)
}

// PlacesByType returns places with exactly the given place type.
func (s *Store) PlacesByType(placeType string, limit int) ([]extract.Place, error) {
	rows, err := s.db.Query(`SELECT `+placeColumns+` FROM places WHERE type = ? LIMIT ?`, placeType, limit)
	if err != nil {
		return nil, fmt.Errorf("places by type: %w", err)
	}
	return scanPlaces(rows)
}

// PlacesByCity returns places with exactly the given city.
func (s *Store) PlacesByCity(city string, limit int) ([]extract.Place, error) {
	rows, err := s.db.Query(`SELECT `+placeColumns+` FROM places WHERE city = ? LIMIT ?`, city, limit)
	if err != nil {
		return nil, fmt.Errorf("places by city: %w", err)
	}
	return scanPlaces(rows)
}

// POIsByCategory returns POIs with exactly the given category.
func (s *Store) POIsByCategory(category string, limit int) ([]extract.POI, error) {
	rows, err := s.db.Query(`SELECT `+poiColumns+` FROM pois WHERE category = ? LIMIT ?`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("pois by category: %w", err)
	}
	return scanPOIs(rows)
}

// POIsInBounds returns POIs whose coordinate falls inside the bounding box,
// served by the spatial index.
func (s *Store) POIsInBounds(b Bounds, limit int) ([]extract.POI, error) {
	rows, err := s.db.Query(`
		SELECT `+qualified(poiColumns, "p")+`
		FROM pois_rtree r
		JOIN pois p ON p.id = r.id
		WHERE r.max_lat >= ? AND r.min_lat <= ?
		  AND r.max_lon >= ? AND r.min_lon <= ?
		LIMIT ?`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, limit)
	if err != nil {
		return nil, fmt.Errorf("pois in bounds: %w", err)
	}
	return scanPOIs(rows)
}

// POIsInBoundsByCategory narrows a spatial range query to one category.
func (s *Store) POIsInBoundsByCategory(category string, b Bounds, limit int) ([]extract.POI, error) {
	rows, err := s.db.Query(`
		SELECT `+qualified(poiColumns, "p")+`
		FROM pois_rtree r
		JOIN pois p ON p.id = r.id
		WHERE p.category = ?
		  AND r.max_lat >= ? AND r.min_lat <= ?
		  AND r.max_lon >= ? AND r.min_lon <= ?
		LIMIT ?`, category, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, limit)
	if err != nil {
		return nil, fmt.Errorf("pois in bounds: %w", err)
	}
	return scanPOIs(rows)
}

// PlaceTypeCounts aggregates places by type, most frequent first.
func (s *Store) PlaceTypeCounts() ([]GroupCount, error) {
	return s.groupCounts(`SELECT type, COUNT(*) FROM places GROUP BY type ORDER BY COUNT(*) DESC, type`)
}

// CategoryCounts aggregates POIs by category, most frequent first.
func (s *Store) CategoryCounts() ([]GroupCount, error) {
	return s.groupCounts(`SELECT category, COUNT(*) FROM pois GROUP BY category ORDER BY COUNT(*) DESC, category`)
}

func (s *Store) groupCounts(query string) ([]GroupCount, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("aggregate counts: %w", err)
	}
	defer rows.Close()

	out := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, fmt.Errorf("aggregate counts: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (extract.Place, error) {
	var p extract.Place
	var osmType string
	err := row.Scan(&p.ID, &p.OSMID, &osmType, &p.Lat, &p.Lon, &p.Name, &p.DisplayName,
		&p.Type, &p.Street, &p.Housenumber, &p.City, &p.Postcode, &p.State, &p.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return extract.Place{}, ErrNotFound
	}
	if err != nil {
		return extract.Place{}, fmt.Errorf("scan place: %w", err)
	}
	p.OSMType = geo.Kind(osmType)
	return p, nil
}

func scanPlaces(rows *sql.Rows) ([]extract.Place, error) {
	defer rows.Close()
	out := []extract.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPOI(row rowScanner) (extract.POI, error) {
	var p extract.POI
	var osmType string
	err := row.Scan(&p.ID, &p.OSMID, &osmType, &p.Lat, &p.Lon, &p.Name, &p.Category,
		&p.Address, &p.Phone, &p.Website, &p.OpeningHours)
	if errors.Is(err, sql.ErrNoRows) {
		return extract.POI{}, ErrNotFound
	}
	if err != nil {
		return extract.POI{}, fmt.Errorf("scan poi: %w", err)
	}
	p.OSMType = geo.Kind(osmType)
	return p, nil
}

func scanPOIs(rows *sql.Rows) ([]extract.POI, error) {
	defer rows.Close()
	out := []extract.POI{}
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
