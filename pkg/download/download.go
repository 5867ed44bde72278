// Package download retrieves map extracts into an on-disk cache: US state
// and worldwide PBF extracts from Geofabrik, and city bounding boxes from
// the Overpass API. A cached file is reused by presence alone; delete it to
// force a fresh download.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/klauspost/compress/gzip"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const userAgent = "addrdb-builder/2.0"

// OverpassEndpoint is the Overpass API interpreter URL. A package variable
// so tests can point it at a stub server.
var OverpassEndpoint = "https://overpass-api.de/api/interpreter"

// overpassTimeout covers the whole city download; Overpass itself is given
// a slightly smaller server-side timeout in the query.
const overpassTimeout = 11 * time.Minute

// BBox is a west/south/east/north bounding box in degrees.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// ParseBBox parses "west,south,east,north".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox must be west,south,east,north, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox component %q: %w", p, err)
		}
		vals[i] = v
	}
	return BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

// Area returns the box area in square degrees.
func (b BBox) Area() float64 {
	return (b.East - b.West) * (b.North - b.South)
}

// USState downloads the PBF extract for a US state key into cacheDir and
// returns the cached path.
func USState(ctx context.Context, stateKey, cacheDir string, log *zap.Logger) (string, error) {
	if _, ok := USStates[stateKey]; !ok {
		return "", fmt.Errorf("unknown US state: %s", stateKey)
	}
	url := fmt.Sprintf("https://download.geofabrik.de/north-america/us/%s-latest.osm.pbf", stateKey)
	dest := filepath.Join(cacheDir, fmt.Sprintf("us-%s.osm.pbf", stateKey))
	return fetchCached(ctx, url, dest, log)
}

// GeofabrikRegion downloads the PBF extract for a Geofabrik region key (or
// a direct base URL) into cacheDir and returns the cached path.
func GeofabrikRegion(ctx context.Context, regionKey, cacheDir string, log *zap.Logger) (string, error) {
	var baseURL, name string
	switch {
	case strings.HasPrefix(regionKey, "http"):
		baseURL = regionKey
		parts := strings.Split(regionKey, "/")
		name = parts[len(parts)-1]
	case GeofabrikRegions[regionKey] != "":
		baseURL = GeofabrikRegions[regionKey]
		name = strings.ReplaceAll(regionKey, "/", "-")
	default:
		baseURL = "https://download.geofabrik.de/" + regionKey
		name = strings.ReplaceAll(regionKey, "/", "-")
	}

	dest := filepath.Join(cacheDir, name+".osm.pbf")
	return fetchCached(ctx, baseURL+"-latest.osm.pbf", dest, log)
}

// CityBBox downloads a city bounding box through the Overpass API into
// cacheDir, stored gzip-compressed, and returns the cached path.
func CityBBox(ctx context.Context, cityName string, bbox BBox, cacheDir string, log *zap.Logger) (string, error) {
	if area := bbox.Area(); area > 1.0 {
		log.Warn("bounding box is large; consider a Geofabrik region instead",
			zap.Float64("square_degrees", area))
	}

	safeName := safeCityName(cityName)
	dest := filepath.Join(cacheDir, fmt.Sprintf("city-%s.osm.gz", safeName))
	if _, err := os.Stat(dest); err == nil {
		log.Info("using cached extract", zap.String("path", dest))
		return dest, nil
	}

	query := fmt.Sprintf(`
	[out:xml][timeout:600][bbox:%f,%f,%f,%f];
	(
	  node;
	  way;
	  relation;
	);
	out body;
	>;
	out skel qt;
	`, bbox.South, bbox.West, bbox.North, bbox.East)

	log.Info("downloading via Overpass API",
		zap.String("city", cityName),
		zap.String("bbox", fmt.Sprintf("%f,%f,%f,%f", bbox.West, bbox.South, bbox.East, bbox.North)))

	reqCtx, cancel := context.WithTimeout(ctx, overpassTimeout)
	defer cancel()

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, OverpassEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("overpass request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("overpass request: unexpected status %s", resp.Status)
	}

	if err := writeGzipped(dest, resp.Body); err != nil {
		return "", err
	}

	log.Info("downloaded", zap.String("path", dest))
	return dest, nil
}

func safeCityName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

// fetchCached downloads url to dest unless dest already exists.
func fetchCached(ctx context.Context, url, dest string, log *zap.Logger) (string, error) {
	if _, err := os.Stat(dest); err == nil {
		log.Info("using cached extract", zap.String("path", dest))
		return dest, nil
	}
	if err := fetch(ctx, url, dest); err != nil {
		return "", err
	}
	log.Info("downloaded", zap.String("path", dest))
	return dest, nil
}

func fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]Downloading extract...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	_, err = io.Copy(io.MultiWriter(f, bar), resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", url, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func writeGzipped(dest string, r io.Reader) error {
	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	zw := gzip.NewWriter(f)
	_, err = io.Copy(zw, r)
	if zErr := zw.Close(); err == nil {
		err = zErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
