package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotak/addrdb/pkg/build"
	"github.com/gotak/addrdb/pkg/download"
	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/logger"
	"github.com/gotak/addrdb/pkg/manifest"

	"go.uber.org/zap"
)

var (
	state       = flag.String("state", "", `US state to build (e.g. "virginia")`)
	allUS       = flag.Bool("all-us", false, "build every US state")
	region      = flag.String("region", "", `Geofabrik region to build (e.g. "europe/germany")`)
	city        = flag.String("city", "", "city name for an Overpass bounding-box download")
	bbox        = flag.String("bbox", "", "bounding box for -city: west,south,east,north")
	file        = flag.String("file", "", "build from a local .osm.pbf/.osm/.osm.gz file")
	name        = flag.String("name", "", "region name for -file")
	outputDir   = flag.String("output-dir", "output", "directory for built stores and the manifest")
	cacheDir    = flag.String("cache-dir", "cache", "directory for downloaded extracts")
	listRegions = flag.Bool("list-regions", false, "list available regions and exit")
)

func main() {
	flag.Parse()

	if *listRegions {
		fmt.Println("Geofabrik regions:")
		for _, k := range download.ListRegionKeys() {
			fmt.Printf("  %s\n", k)
		}
		fmt.Println("US states:")
		for _, k := range download.ListStateKeys() {
			fmt.Printf("  %s\n", k)
		}
		return
	}

	zlog, cleanup, err := logger.New()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := run(zlog); err != nil {
		zlog.Fatal("build failed", zap.Error(err))
	}
}

func run(zlog *zap.Logger) error {
	ctx := context.Background()

	for _, dir := range []string{*outputDir, *cacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	specs, err := resolveSpecs(ctx, zlog)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		flag.Usage()
		return nil
	}

	builder := build.NewBuilder(extract.DefaultCategories(), zlog)
	outcomes := builder.Batch(ctx, specs)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}

	// the manifest covers whatever stores exist, built after all attempts
	if _, err := manifest.Build(*outputDir, extract.DefaultCategories(), zlog); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d regions failed", failed, len(outcomes))
	}
	return nil
}

// resolveSpecs turns the flag surface into region build specs, downloading
// sources as needed. A failed download for one state in -all-us does not
// stop the rest; the region is simply absent from the specs and reported.
func resolveSpecs(ctx context.Context, zlog *zap.Logger) ([]build.RegionSpec, error) {
	switch {
	case *state != "":
		key := download.StateKey(*state)
		path, err := download.USState(ctx, key, *cacheDir, zlog)
		if err != nil {
			return nil, err
		}
		return []build.RegionSpec{{
			SourcePath: path,
			DBPath:     filepath.Join(*outputDir, key+".db"),
			Name:       download.StateDisplayName(key),
		}}, nil

	case *allUS:
		specs := []build.RegionSpec{}
		for _, key := range download.ListStateKeys() {
			path, err := download.USState(ctx, key, *cacheDir, zlog)
			if err != nil {
				zlog.Error("download failed, skipping state",
					zap.String("state", key), zap.Error(err))
				continue
			}
			specs = append(specs, build.RegionSpec{
				SourcePath: path,
				DBPath:     filepath.Join(*outputDir, key+".db"),
				Name:       download.StateDisplayName(key),
			})
		}
		return specs, nil

	case *region != "":
		path, err := download.GeofabrikRegion(ctx, *region, *cacheDir, zlog)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(*region, "/")
		displayName := download.StateDisplayName(parts[len(parts)-1])
		safeName := strings.ReplaceAll(*region, "/", "-")
		return []build.RegionSpec{{
			SourcePath: path,
			DBPath:     filepath.Join(*outputDir, safeName+".db"),
			Name:       displayName,
		}}, nil

	case *city != "" && *bbox != "":
		box, err := download.ParseBBox(*bbox)
		if err != nil {
			return nil, err
		}
		path, err := download.CityBBox(ctx, *city, box, *cacheDir, zlog)
		if err != nil {
			return nil, err
		}
		safeName := strings.ReplaceAll(strings.ToLower(*city), " ", "-")
		safeName = strings.ReplaceAll(safeName, ",", "")
		return []build.RegionSpec{{
			SourcePath: path,
			DBPath:     filepath.Join(*outputDir, "city-"+safeName+".db"),
			Name:       *city,
		}}, nil

	case *file != "":
		regionName := *name
		if regionName == "" {
			regionName = regionNameFromFile(*file)
		}
		safeName := strings.ReplaceAll(strings.ToLower(regionName), " ", "-")
		return []build.RegionSpec{{
			SourcePath: *file,
			DBPath:     filepath.Join(*outputDir, safeName+".db"),
			Name:       regionName,
		}}, nil
	}

	return nil, nil
}

// regionNameFromFile derives a region label from a local extract path by
// stripping the extract extension, whichever of the supported ones it is.
func regionNameFromFile(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".osm.pbf", ".osm.gz", ".osm"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}
