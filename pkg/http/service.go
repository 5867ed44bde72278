package http

import (
	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/manifest"
	"github.com/gotak/addrdb/pkg/store"
)

// SearchService is what the API layer needs from the query side. Tests
// substitute a fake.
type SearchService interface {
	Search(query string, limit int) ([]extract.Place, error)
	Nearby(category string, bounds store.Bounds, limit int) ([]extract.POI, error)
	Categories() []string
	Regions() (manifest.Manifest, error)
}

// StoreService serves queries from one opened region store plus the
// catalog manifest.
type StoreService struct {
	store        *store.Store
	categories   *extract.CategoryTable
	manifestPath string
}

func NewStoreService(s *store.Store, categories *extract.CategoryTable, manifestPath string) *StoreService {
	return &StoreService{store: s, categories: categories, manifestPath: manifestPath}
}

func (s *StoreService) Search(query string, limit int) ([]extract.Place, error) {
	return s.store.SearchPlaces(query, limit)
}

func (s *StoreService) Nearby(category string, bounds store.Bounds, limit int) ([]extract.POI, error) {
	if category == "" {
		return s.store.POIsInBounds(bounds, limit)
	}
	return s.store.POIsInBoundsByCategory(category, bounds, limit)
}

func (s *StoreService) Categories() []string {
	return s.categories.Names()
}

func (s *StoreService) Regions() (manifest.Manifest, error) {
	return manifest.Load(s.manifestPath)
}
