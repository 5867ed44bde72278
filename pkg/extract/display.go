package extract

import (
	"strings"

	"github.com/gotak/addrdb/pkg/geo"
)

// DisplayName composes the human-readable display string for a place: the
// resolved short name, the street line only when no name exists, then city,
// state, country and postcode, comma-joined with empty components skipped.
// When everything is empty the region label stands in so no place ever has
// an empty display string.
func DisplayName(tags geo.Tags, name, region string) string {
	parts := []string{}

	if name != "" {
		parts = append(parts, name)
	} else if street, ok := tags.Get("addr:street"); ok {
		if housenumber, ok := tags.Get("addr:housenumber"); ok {
			parts = append(parts, housenumber+" "+street)
		} else {
			parts = append(parts, street)
		}
	}

	for _, key := range []string{"addr:city", "addr:state", "addr:country", "addr:postcode"} {
		if v, ok := tags.Get(key); ok {
			parts = append(parts, v)
		}
	}

	if len(parts) == 0 {
		return region
	}
	return strings.Join(parts, ", ")
}
