package geo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/schollz/progressbar/v3"
)

// Format identifies the on-disk encoding of a map extract.
type Format int

const (
	FormatPBF Format = iota
	FormatXML
	FormatXMLGzip
)

// Source streams entities out of one map extract. The stream is sequential
// and forward-only: node entities are emitted while scanning, tagged ways
// are buffered during the first pass and emitted last with their vertex
// coordinates averaged.
//
// A malformed way never aborts the stream; it is skipped and counted so the
// caller can report it.
type Source struct {
	open        func() (io.ReadCloser, error)
	format      Format
	progress    bool
	skippedWays int
}

// NewFileSource builds a source over a map extract file, picking the format
// from the file extension (.osm.pbf, .osm, .osm.gz).
func NewFileSource(path string) (*Source, error) {
	var format Format
	switch {
	case strings.HasSuffix(path, ".pbf"):
		format = FormatPBF
	case strings.HasSuffix(path, ".osm.gz"):
		format = FormatXMLGzip
	case strings.HasSuffix(path, ".osm"):
		format = FormatXML
	default:
		return nil, fmt.Errorf("unsupported map file extension: %s", filepath.Base(path))
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("map file unavailable: %w", err)
	}

	open := func() (io.ReadCloser, error) {
		return os.Open(path)
	}
	return &Source{open: open, format: format, progress: true}, nil
}

// NewReaderSource builds a source over an arbitrary reader. The opener is
// invoked once per scanning pass, so it must yield a fresh reader each time.
func NewReaderSource(open func() (io.ReadCloser, error), format Format) *Source {
	return &Source{open: open, format: format}
}

// SkippedWays reports how many ways were dropped because of per-way faults
// during the last ForEach run.
func (s *Source) SkippedWays() int {
	return s.skippedWays
}

type rawWay struct {
	id      int64
	nodeIDs []int64
	tags    Tags
}

// ForEach streams every tagged entity to fn. Node entities come first in
// scan order, then way entities. Returning an error from fn stops the scan.
func (s *Source) ForEach(ctx context.Context, fn func(Entity) error) error {
	s.skippedWays = 0

	bar := s.newProgressBar()

	// pass 1: tagged ways and the node IDs they reference
	ways := []rawWay{}
	wayNodeIDs := make(map[int64]struct{})

	err := s.scan(ctx, func(o osm.Object) error {
		if o.ObjectID().Type() != osm.TypeWay {
			return nil
		}
		way := o.(*osm.Way)
		tags := Tags(way.TagMap())
		if len(tags) == 0 {
			return nil
		}
		nodeIDs := make([]int64, 0, len(way.Nodes))
		for _, wn := range way.Nodes {
			nodeIDs = append(nodeIDs, int64(wn.ID))
			wayNodeIDs[int64(wn.ID)] = struct{}{}
		}
		ways = append(ways, rawWay{id: int64(way.ID), nodeIDs: nodeIDs, tags: tags})
		return nil
	})
	if err != nil {
		return err
	}
	s.barAdd(bar)

	// pass 2: emit tagged nodes, resolve locations for way vertices
	locations := make(map[int64][2]float64, len(wayNodeIDs))

	err = s.scan(ctx, func(o osm.Object) error {
		if o.ObjectID().Type() != osm.TypeNode {
			return nil
		}
		node := o.(*osm.Node)
		if !validLocation(node.Lat, node.Lon) {
			return nil
		}
		if _, needed := wayNodeIDs[int64(node.ID)]; needed {
			locations[int64(node.ID)] = [2]float64{node.Lat, node.Lon}
		}
		tags := Tags(node.TagMap())
		if len(tags) == 0 {
			return nil
		}
		return fn(Entity{
			SourceID: int64(node.ID),
			Kind:     KindNode,
			Lat:      node.Lat,
			Lon:      node.Lon,
			Tags:     tags,
		})
	})
	if err != nil {
		return err
	}
	s.barAdd(bar)

	// emit buffered ways with averaged vertex coordinates
	for _, way := range ways {
		ent, ok := s.resolveWay(way, locations)
		if !ok {
			continue
		}
		if err := fn(ent); err != nil {
			return err
		}
	}
	s.barAdd(bar)

	return nil
}

// resolveWay computes the way's point approximation: the arithmetic mean of
// latitude and of longitude over all vertices with a resolved location. This
// is deliberately not a true centroid; downstream consumers expect plain
// point semantics. A way with zero resolved vertices yields nothing, and any
// fault while resolving skips just that way.
func (s *Source) resolveWay(way rawWay, locations map[int64][2]float64) (ent Entity, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.skippedWays++
			ok = false
		}
	}()

	var latSum, lonSum float64
	count := 0
	for _, nodeID := range way.nodeIDs {
		loc, found := locations[nodeID]
		if !found {
			continue
		}
		latSum += loc[0]
		lonSum += loc[1]
		count++
	}
	if count == 0 {
		return Entity{}, false
	}

	return Entity{
		SourceID: way.id,
		Kind:     KindWay,
		Lat:      latSum / float64(count),
		Lon:      lonSum / float64(count),
		Tags:     way.tags,
	}, true
}

func (s *Source) scan(ctx context.Context, visit func(osm.Object) error) error {
	r, err := s.open()
	if err != nil {
		return fmt.Errorf("open map source: %w", err)
	}
	defer r.Close()

	var scanner osm.Scanner
	switch s.format {
	case FormatPBF:
		scanner = osmpbf.New(ctx, r, 1)
	case FormatXML:
		scanner = osmxml.New(ctx, r)
	case FormatXMLGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("open gzip map source: %w", err)
		}
		defer zr.Close()
		scanner = osmxml.New(ctx, zr)
	default:
		return fmt.Errorf("unknown map source format: %d", s.format)
	}
	defer scanner.Close()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := visit(scanner.Object()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan map source: %w", err)
	}
	return nil
}

func (s *Source) newProgressBar() *progressbar.ProgressBar {
	if !s.progress {
		return nil
	}
	return progressbar.NewOptions(3,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2]Parsing osm objects...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (s *Source) barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}
