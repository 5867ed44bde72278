// Package build orchestrates one region's pipeline: entity source through
// record extraction into the persisted store, with a summary report at the
// end. A batch run processes regions serially and isolates their failures.
package build

import (
	"context"
	"fmt"

	"github.com/gotak/addrdb/pkg/extract"
	"github.com/gotak/addrdb/pkg/geo"
	"github.com/gotak/addrdb/pkg/store"

	"go.uber.org/zap"
)

const topPlaceTypes = 10

// RegionSpec names one region build: where the source extract lives, where
// the store goes, and the human region label.
type RegionSpec struct {
	SourcePath string
	DBPath     string
	Name       string
}

// RegionResult reports one successful region build.
type RegionResult struct {
	DBPath      string
	PlaceCount  int
	POICount    int
	SkippedWays int
}

// Outcome pairs a region spec with its result or failure in a batch run.
type Outcome struct {
	Spec   RegionSpec
	Result RegionResult
	Err    error
}

// Builder runs region builds against one read-only category table.
type Builder struct {
	categories *extract.CategoryTable
	classifier *extract.Classifier
	log        *zap.Logger
}

func NewBuilder(categories *extract.CategoryTable, log *zap.Logger) *Builder {
	return &Builder{
		categories: categories,
		classifier: extract.NewClassifier(categories),
		log:        log,
	}
}

// Region builds one region store. The source is consumed in a single
// forward pass; extracted records accumulate fully in memory and are
// bulk-loaded into a fresh store in one shot.
func (b *Builder) Region(ctx context.Context, spec RegionSpec) (RegionResult, error) {
	log := b.log.With(zap.String("region", spec.Name))
	log.Info("building region", zap.String("source", spec.SourcePath))

	src, err := geo.NewFileSource(spec.SourcePath)
	if err != nil {
		return RegionResult{}, fmt.Errorf("region %s: %w", spec.Name, err)
	}

	ext := extract.NewExtractor(b.classifier, spec.Name, log)
	err = src.ForEach(ctx, func(ent geo.Entity) error {
		ext.Consume(ent)
		return nil
	})
	if err != nil {
		return RegionResult{}, fmt.Errorf("region %s: %w", spec.Name, err)
	}

	if skipped := src.SkippedWays(); skipped > 0 {
		log.Warn("skipped malformed ways", zap.Int("count", skipped))
	}

	places, pois := ext.Places(), ext.POIs()
	log.Info("extracted records",
		zap.Int("places", len(places)),
		zap.Int("pois", len(pois)))

	if err := store.Build(spec.DBPath, spec.Name, places, pois); err != nil {
		return RegionResult{}, fmt.Errorf("region %s: %w", spec.Name, err)
	}

	Summarize(places, pois).Log(log, topPlaceTypes)
	log.Info("store written", zap.String("path", spec.DBPath))

	return RegionResult{
		DBPath:      spec.DBPath,
		PlaceCount:  len(places),
		POICount:    len(pois),
		SkippedWays: src.SkippedWays(),
	}, nil
}

// Batch builds every region in order. A failed region is logged and
// recorded in its outcome; the remaining regions still run. Nothing from a
// failed region leaks into another: regions share only the read-only
// classification tables.
func (b *Builder) Batch(ctx context.Context, specs []RegionSpec) []Outcome {
	outcomes := make([]Outcome, 0, len(specs))
	for _, spec := range specs {
		result, err := b.Region(ctx, spec)
		if err != nil {
			b.log.Error("region build failed", zap.String("region", spec.Name), zap.Error(err))
		}
		outcomes = append(outcomes, Outcome{Spec: spec, Result: result, Err: err})
	}
	return outcomes
}
