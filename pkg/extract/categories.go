package extract

import (
	"fmt"

	"github.com/gotak/addrdb/pkg/geo"
)

// CategoryMapping binds a symbolic POI category name to the OSM tag pair
// that identifies it.
type CategoryMapping struct {
	Name     string
	TagKey   string
	TagValue string
}

// defaultCategoryMappings is the closed category set shipped to downstream
// consumers. Order is the scan order for classification, so it is fixed for
// the lifetime of the process. Tag pairs must stay pairwise distinct or
// classification stops being deterministic; NewCategoryTable enforces that.
var defaultCategoryMappings = []CategoryMapping{
	// medical
	{"HOSPITAL", "amenity", "hospital"},
	{"PHARMACY", "amenity", "pharmacy"},
	{"DENTIST", "amenity", "dentist"},
	{"DOCTOR", "amenity", "doctors"},
	{"CLINIC", "amenity", "clinic"},
	{"VETERINARIAN", "amenity", "veterinary"},

	// emergency services
	{"FIRE_STATION", "amenity", "fire_station"},
	{"POLICE_STATION", "amenity", "police"},

	// transportation
	{"AIRPORT", "aeroway", "aerodrome"},
	{"HELIPORT", "aeroway", "helipad"},
	{"RAILWAY_STATION", "railway", "station"},
	{"FERRY_TERMINAL", "amenity", "ferry_terminal"},
	{"PARKING", "amenity", "parking"},

	// fuel and vehicle services
	{"GAS_STATION", "amenity", "fuel"},
	{"CAR_WASH", "amenity", "car_wash"},

	// finance
	{"BANK", "amenity", "bank"},
	{"ATM", "amenity", "atm"},

	// education
	{"SCHOOL", "amenity", "school"},

	// food and lodging
	{"RESTAURANT", "amenity", "restaurant"},
	{"HOTEL", "tourism", "hotel"},
	{"CAFE", "amenity", "cafe"},
	{"FAST_FOOD", "amenity", "fast_food"},
	{"BAR", "amenity", "bar"},
	{"PUB", "amenity", "pub"},

	// shopping
	{"SUPERMARKET", "shop", "supermarket"},
	{"CONVENIENCE_STORE", "shop", "convenience"},
	{"SHOPPING_MALL", "shop", "mall"},
	{"HARDWARE_STORE", "shop", "hardware"},

	// services
	{"LAUNDRY", "shop", "laundry"},
	{"HAIR_SALON", "shop", "hairdresser"},

	// entertainment and recreation
	{"CINEMA", "amenity", "cinema"},
	{"GYM", "leisure", "fitness_centre"},

	// cemetery and memorial
	{"CEMETERY", "landuse", "cemetery"},
	{"GRAVE_YARD", "amenity", "grave_yard"},

	// surveillance
	{"SURVEILLANCE", "man_made", "surveillance"},

	// government
	{"EMBASSY", "amenity", "embassy"},
	{"GOVERNMENT", "office", "government"},
	{"PRISON", "amenity", "prison"},

	// communications and infrastructure
	{"COMM_TOWER", "man_made", "tower"},
	{"CELL_TOWER", "man_made", "mast"},
	{"POWER_STATION", "power", "plant"},
	{"WATER_TOWER", "man_made", "water_tower"},

	// utilities
	{"POST_OFFICE", "amenity", "post_office"},

	// community
	{"PLACE_OF_WORSHIP", "amenity", "place_of_worship"},
	{"LIBRARY", "amenity", "library"},
}

// CategoryTable is an immutable, bidirectional mapping between category
// names and OSM tag pairs. It is built once at startup and shared read-only
// by every region build.
type CategoryTable struct {
	entries []CategoryMapping
	names   []string
}

// NewCategoryTable builds a table from mappings, panicking on a duplicate
// tag pair. Tests substitute smaller fixture tables through this.
func NewCategoryTable(mappings []CategoryMapping) *CategoryTable {
	seen := make(map[[2]string]string, len(mappings))
	entries := make([]CategoryMapping, len(mappings))
	names := make([]string, 0, len(mappings))
	copy(entries, mappings)

	for _, m := range mappings {
		pair := [2]string{m.TagKey, m.TagValue}
		if prev, dup := seen[pair]; dup {
			panic(fmt.Sprintf("category table: tag pair %s=%s bound to both %s and %s",
				m.TagKey, m.TagValue, prev, m.Name))
		}
		seen[pair] = m.Name
		names = append(names, m.Name)
	}

	return &CategoryTable{entries: entries, names: names}
}

var defaultCategories = NewCategoryTable(defaultCategoryMappings)

// DefaultCategories returns the process-wide category table.
func DefaultCategories() *CategoryTable {
	return defaultCategories
}

// Match scans the table in declared order and returns the category of the
// first tag pair present on tags with exactly that value.
func (c *CategoryTable) Match(tags geo.Tags) (string, bool) {
	for _, m := range c.entries {
		if v, ok := tags.Lookup(m.TagKey); ok && v == m.TagValue {
			return m.Name, true
		}
	}
	return "", false
}

// Names returns the category names in table order.
func (c *CategoryTable) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Entries returns the full table in scan order.
func (c *CategoryTable) Entries() []CategoryMapping {
	out := make([]CategoryMapping, len(c.entries))
	copy(out, c.entries)
	return out
}
