package extract

import "github.com/gotak/addrdb/pkg/geo"

// settlementValues are the place= values that name searchable settlements.
// Any other place= value falls through to the later rules.
var settlementValues = map[string]bool{
	"city":          true,
	"town":          true,
	"village":       true,
	"hamlet":        true,
	"suburb":        true,
	"neighbourhood": true,
	"locality":      true,
}

// Classifier decides what kind of searchable place an entity is and,
// independently, whether it is a categorized POI. Both decisions are pure
// functions of the tag mapping; a non-match is a valid outcome, not an
// error.
type Classifier struct {
	categories *CategoryTable
}

func NewClassifier(categories *CategoryTable) *Classifier {
	return &Classifier{categories: categories}
}

// PlaceType resolves the place-type label for tags. The rules run in a
// fixed priority order: a settlement place= value beats an amenity, an
// amenity beats a shop, and so on down to the name+landuse fallback. First
// match wins, which is the disambiguation policy for entities carrying
// several classifying tags at once.
func (c *Classifier) PlaceType(tags geo.Tags) (string, bool) {
	if place, ok := tags.Get("place"); ok && settlementValues[place] {
		return place, true
	}
	if amenity, ok := tags.Get("amenity"); ok {
		return amenity, true
	}
	if shop, ok := tags.Get("shop"); ok {
		return "shop_" + shop, true
	}
	if tourism, ok := tags.Get("tourism"); ok {
		return tourism, true
	}

	_, hasStreet := tags.Get("addr:street")
	_, hasNumber := tags.Get("addr:housenumber")
	if hasStreet && hasNumber {
		if building, ok := tags.Get("building"); ok {
			// building=yes is a placeholder, not a building kind
			if building == "yes" {
				return "building", true
			}
			return "building_" + building, true
		}
		return "address", true
	}

	if leisure, ok := tags.Get("leisure"); ok {
		return leisure, true
	}
	if office, ok := tags.Get("office"); ok {
		return "office_" + office, true
	}
	if aeroway, ok := tags.Get("aeroway"); ok {
		return aeroway, true
	}
	if railway, ok := tags.Get("railway"); ok {
		return railway, true
	}

	if _, named := tags.Get("name"); named {
		if landuse, ok := tags.Get("landuse"); ok {
			return landuse, true
		}
	}

	return "", false
}

// Category resolves the POI category for tags by scanning the category
// table in its declared order.
func (c *Classifier) Category(tags geo.Tags) (string, bool) {
	return c.categories.Match(tags)
}
