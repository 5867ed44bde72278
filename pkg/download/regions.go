package download

import (
	"sort"
	"strings"
)

// USStates maps a Geofabrik state key to its postal abbreviation.
var USStates = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district-of-columbia": "DC", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new-hampshire": "NH", "new-jersey": "NJ", "new-mexico": "NM",
	"new-york": "NY", "north-carolina": "NC", "north-dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode-island": "RI",
	"south-carolina": "SC", "south-dakota": "SD", "tennessee": "TN", "texas": "TX",
	"utah": "UT", "vermont": "VT", "virginia": "VA", "washington": "WA",
	"west-virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// GeofabrikRegions maps a region key to its Geofabrik base URL. The full
// catalog lives at https://download.geofabrik.de/; unknown keys fall back
// to URL construction from the key itself.
var GeofabrikRegions = map[string]string{
	"north-america/us":     "https://download.geofabrik.de/north-america/us",
	"north-america/canada": "https://download.geofabrik.de/north-america/canada",
	"north-america/mexico": "https://download.geofabrik.de/north-america/mexico",

	"europe/germany":                      "https://download.geofabrik.de/europe/germany",
	"europe/france":                       "https://download.geofabrik.de/europe/france",
	"europe/great-britain":                "https://download.geofabrik.de/europe/great-britain",
	"europe/italy":                        "https://download.geofabrik.de/europe/italy",
	"europe/spain":                        "https://download.geofabrik.de/europe/spain",
	"europe/poland":                       "https://download.geofabrik.de/europe/poland",
	"europe/netherlands":                  "https://download.geofabrik.de/europe/netherlands",
	"europe/belgium":                      "https://download.geofabrik.de/europe/belgium",
	"europe/switzerland":                  "https://download.geofabrik.de/europe/switzerland",
	"europe/austria":                      "https://download.geofabrik.de/europe/austria",
	"europe/sweden":                       "https://download.geofabrik.de/europe/sweden",
	"europe/norway":                       "https://download.geofabrik.de/europe/norway",
	"europe/finland":                      "https://download.geofabrik.de/europe/finland",
	"europe/denmark":                      "https://download.geofabrik.de/europe/denmark",
	"europe/portugal":                     "https://download.geofabrik.de/europe/portugal",
	"europe/greece":                       "https://download.geofabrik.de/europe/greece",
	"europe/ireland-and-northern-ireland": "https://download.geofabrik.de/europe/ireland-and-northern-ireland",
	"europe/ukraine":                      "https://download.geofabrik.de/europe/ukraine",
	"europe/romania":                      "https://download.geofabrik.de/europe/romania",
	"europe/czech-republic":               "https://download.geofabrik.de/europe/czech-republic",

	"asia/japan":                     "https://download.geofabrik.de/asia/japan",
	"asia/south-korea":               "https://download.geofabrik.de/asia/south-korea",
	"asia/taiwan":                    "https://download.geofabrik.de/asia/taiwan",
	"asia/philippines":               "https://download.geofabrik.de/asia/philippines",
	"asia/thailand":                  "https://download.geofabrik.de/asia/thailand",
	"asia/vietnam":                   "https://download.geofabrik.de/asia/vietnam",
	"asia/malaysia-singapore-brunei": "https://download.geofabrik.de/asia/malaysia-singapore-brunei",
	"asia/indonesia":                 "https://download.geofabrik.de/asia/indonesia",
	"asia/india":                     "https://download.geofabrik.de/asia/india",
	"asia/pakistan":                  "https://download.geofabrik.de/asia/pakistan",
	"asia/israel-and-palestine":      "https://download.geofabrik.de/asia/israel-and-palestine",
	"asia/iraq":                      "https://download.geofabrik.de/asia/iraq",
	"asia/iran":                      "https://download.geofabrik.de/asia/iran",
	"asia/afghanistan":               "https://download.geofabrik.de/asia/afghanistan",

	"south-america/brazil":    "https://download.geofabrik.de/south-america/brazil",
	"south-america/argentina": "https://download.geofabrik.de/south-america/argentina",
	"south-america/chile":     "https://download.geofabrik.de/south-america/chile",
	"south-america/colombia":  "https://download.geofabrik.de/south-america/colombia",
	"south-america/peru":      "https://download.geofabrik.de/south-america/peru",

	"africa/egypt":        "https://download.geofabrik.de/africa/egypt",
	"africa/south-africa": "https://download.geofabrik.de/africa/south-africa",
	"africa/morocco":      "https://download.geofabrik.de/africa/morocco",
	"africa/kenya":        "https://download.geofabrik.de/africa/kenya",
	"africa/nigeria":      "https://download.geofabrik.de/africa/nigeria",

	"australia-oceania/australia":   "https://download.geofabrik.de/australia-oceania/australia",
	"australia-oceania/new-zealand": "https://download.geofabrik.de/australia-oceania/new-zealand",

	"russia": "https://download.geofabrik.de/russia",
}

// StateKey normalizes a user-supplied state name to the Geofabrik key form.
func StateKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// StateDisplayName returns the human region label for a state key, e.g.
// "new-york" -> "New York".
func StateDisplayName(key string) string {
	words := strings.Split(key, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ListStateKeys returns the US state keys in sorted order.
func ListStateKeys() []string {
	keys := make([]string, 0, len(USStates))
	for k := range USStates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListRegionKeys returns the Geofabrik region keys in sorted order.
func ListRegionKeys() []string {
	keys := make([]string, 0, len(GeofabrikRegions))
	for k := range GeofabrikRegions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
