package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const regionXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
 <node id="1" lat="51.5" lon="-0.12">
  <tag k="name" v="Boots"/>
  <tag k="amenity" v="pharmacy"/>
 </node>
 <node id="2" lat="38.0" lon="-78.0"/>
 <node id="3" lat="38.2" lon="-78.2"/>
 <node id="4" lat="38.5" lon="-78.5">
  <tag k="place" v="city"/>
  <tag k="name" v="Springfield"/>
 </node>
 <way id="10">
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="building" v="house"/>
  <tag k="addr:street" v="Main St"/>
  <tag k="addr:housenumber" v="10"/>
 </way>
</osm>
`

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.osm")
	require.NoError(t, os.WriteFile(path, []byte(regionXML), 0o644))
	return path
}

func TestBuildRegion(t *testing.T) {
	dir := t.TempDir()
	spec := RegionSpec{
		SourcePath: writeFixture(t, dir),
		DBPath:     filepath.Join(dir, "fixture.db"),
		Name:       "Fixture",
	}

	builder := NewBuilder(extract.DefaultCategories(), zap.NewNop())
	result, err := builder.Region(context.Background(), spec)
	require.NoError(t, err)

	// places: Boots (pharmacy), Springfield (city), 10 Main St (building_house)
	assert.Equal(t, 3, result.PlaceCount)
	// pois: Boots (PHARMACY)
	assert.Equal(t, 1, result.POICount)
	assert.Equal(t, 0, result.SkippedWays)

	require.NoError(t, store.Verify(spec.DBPath))

	s, err := store.Open(spec.DBPath)
	require.NoError(t, err)
	defer s.Close()

	meta, err := s.Metadata()
	require.NoError(t, err)
	assert.Equal(t, 3, meta.PlaceCount)
	assert.Equal(t, 1, meta.POICount)
	assert.Equal(t, "Fixture", meta.Region)

	places, err := s.SearchPlaces("Springfield", 10)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "city", places[0].Type)
}

func TestBuildRegionMissingSource(t *testing.T) {
	dir := t.TempDir()
	builder := NewBuilder(extract.DefaultCategories(), zap.NewNop())

	_, err := builder.Region(context.Background(), RegionSpec{
		SourcePath: filepath.Join(dir, "missing.osm.pbf"),
		DBPath:     filepath.Join(dir, "missing.db"),
		Name:       "Missing",
	})
	assert.Error(t, err)
}

func TestBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := RegionSpec{
		SourcePath: writeFixture(t, dir),
		DBPath:     filepath.Join(dir, "good.db"),
		Name:       "Good",
	}
	bad := RegionSpec{
		SourcePath: filepath.Join(dir, "no-such-file.osm.pbf"),
		DBPath:     filepath.Join(dir, "bad.db"),
		Name:       "Bad",
	}

	builder := NewBuilder(extract.DefaultCategories(), zap.NewNop())
	outcomes := builder.Batch(context.Background(), []RegionSpec{bad, good})

	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err, "a failed region must not stop the batch")

	require.NoError(t, store.Verify(good.DBPath))
	_, err := os.Stat(bad.DBPath)
	assert.True(t, os.IsNotExist(err), "failed region leaves no store behind")
}
