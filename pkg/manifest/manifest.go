// Package manifest assembles the aggregate catalog over every regional
// store in an output directory, so downstream consumers can discover which
// stores exist without opening each one.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/store"

	"go.uber.org/zap"
)

const Filename = "manifest.json"

// Region describes one built store.
type Region struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	PlaceCount int    `json:"place_count"`
	POICount   int    `json:"poi_count"`
	Filename   string `json:"filename"`
}

// Manifest is the on-disk catalog format read by offline clients.
type Manifest struct {
	Version       string   `json:"version"`
	SchemaVersion int      `json:"schema_version"`
	POICategories []string `json:"poi_categories"`
	Regions       []Region `json:"regions"`
}

// Build scans outputDir for region stores and writes the manifest next to
// them, returning the manifest path. A store whose metadata cannot be read
// is still listed (by filename, with zero counts) so a stale or partial
// file stays visible to the operator.
func Build(outputDir string, categories *extract.CategoryTable, log *zap.Logger) (string, error) {
	paths, err := filepath.Glob(filepath.Join(outputDir, "*.db"))
	if err != nil {
		return "", fmt.Errorf("scan output dir: %w", err)
	}
	sort.Strings(paths)

	m := Manifest{
		Version:       "2.0",
		SchemaVersion: store.SchemaVersion,
		POICategories: categories.Names(),
		Regions:       []Region{},
	}

	for _, path := range paths {
		m.Regions = append(m.Regions, describe(path, log))
	}

	manifestPath := filepath.Join(outputDir, Filename)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	log.Info("manifest written",
		zap.String("path", manifestPath),
		zap.Int("regions", len(m.Regions)))
	return manifestPath, nil
}

// Load reads a previously written manifest.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func describe(path string, log *zap.Logger) Region {
	stem := strings.TrimSuffix(filepath.Base(path), ".db")
	region := Region{
		ID:       stem,
		Name:     stem,
		Filename: filepath.Base(path),
	}

	if info, err := os.Stat(path); err == nil {
		region.Size = info.Size()
	}

	s, err := store.Open(path)
	if err != nil {
		log.Warn("store unreadable, listing with zero counts",
			zap.String("path", path), zap.Error(err))
		return region
	}
	defer s.Close()

	meta, err := s.Metadata()
	if err != nil {
		log.Warn("store metadata unreadable, listing with zero counts",
			zap.String("path", path), zap.Error(err))
		return region
	}

	if meta.Region != "" {
		region.Name = meta.Region
	}
	region.PlaceCount = meta.PlaceCount
	region.POICount = meta.POICount
	return region
}
