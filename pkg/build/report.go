package build

import (
	"sort"

	"github.com/gotak/addrdb/pkg/extract"

	"go.uber.org/zap"
)

// GroupCount is one summary bucket.
type GroupCount struct {
	Name  string
	Count int
}

// Summary aggregates one region's extracted records for operator feedback.
// It establishes no invariant and persists nothing.
type Summary struct {
	PlaceTypes []GroupCount
	Categories []GroupCount
}

// Summarize groups places by type and POIs by category, each sorted by
// descending count with name as the tiebreak. Empty input yields empty
// groups.
func Summarize(places []extract.Place, pois []extract.POI) Summary {
	return Summary{
		PlaceTypes: groupBy(len(places), func(i int) string { return places[i].Type }),
		Categories: groupBy(len(pois), func(i int) string { return pois[i].Category }),
	}
}

// TopPlaceTypes returns the n most frequent place types.
func (s Summary) TopPlaceTypes(n int) []GroupCount {
	if n > len(s.PlaceTypes) {
		n = len(s.PlaceTypes)
	}
	return s.PlaceTypes[:n]
}

// Log writes the summary through the logger: top-n place types and every
// POI category.
func (s Summary) Log(log *zap.Logger, topN int) {
	for _, g := range s.TopPlaceTypes(topN) {
		log.Info("place type", zap.String("type", g.Name), zap.Int("count", g.Count))
	}
	for _, g := range s.Categories {
		log.Info("poi category", zap.String("category", g.Name), zap.Int("count", g.Count))
	}
}

func groupBy(n int, key func(int) string) []GroupCount {
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[key(i)]++
	}

	groups := make([]GroupCount, 0, len(counts))
	for name, count := range counts {
		groups = append(groups, GroupCount{Name: name, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}
