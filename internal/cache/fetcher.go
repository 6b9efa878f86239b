package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Fetcher retrieves remote bytes. Implementations must honor context
// cancellation; any failure (including timeout) is reported as an
// error and treated by the manager as a failed download, never a crash.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches bytes over HTTP with a bounded timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after the
// given duration.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the full body at url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

// TileStats reports what a tile fetch actually stored. Zero values
// mean the fetcher could not observe real sizes and the manager should
// estimate them from the viewport.
type TileStats struct {
	TileCount int
	SizeInMB  float64
}

// TileFetcher downloads the tiles covering a map region and returns
// them packed as a single blob plus observed stats.
type TileFetcher interface {
	FetchRegion(ctx context.Context, region RegionRequest) ([]byte, TileStats, error)
}

// HTTPTileFetcher fetches XYZ tiles from a tile server and packs them
// into a zip archive. URLTemplate must contain %d/%d/%d placeholders
// for zoom, x, and y.
type HTTPTileFetcher struct {
	URLTemplate string
	fetcher     *HTTPFetcher
}

// NewHTTPTileFetcher creates a tile fetcher against the given XYZ
// template, e.g. "https://tiles.example.com/%d/%d/%d.png".
func NewHTTPTileFetcher(urlTemplate string, timeout time.Duration) *HTTPTileFetcher {
	return &HTTPTileFetcher{
		URLTemplate: urlTemplate,
		fetcher:     NewHTTPFetcher(timeout),
	}
}

// FetchRegion downloads every tile in the region's viewport at its
// zoom level and returns them as one zip blob.
func (f *HTTPTileFetcher) FetchRegion(ctx context.Context, region RegionRequest) ([]byte, TileStats, error) {
	minX, maxX, minY, maxY := tileRange(region)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	count := 0

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			url := fmt.Sprintf(f.URLTemplate, region.ZoomLevel, x, y)
			data, err := f.fetcher.Fetch(ctx, url)
			if err != nil {
				return nil, TileStats{}, fmt.Errorf("tile %d/%d/%d: %w", region.ZoomLevel, x, y, err)
			}

			w, err := zw.Create(fmt.Sprintf("%d/%d/%d", region.ZoomLevel, x, y))
			if err != nil {
				return nil, TileStats{}, fmt.Errorf("failed to add tile to archive: %w", err)
			}
			if _, err := w.Write(data); err != nil {
				return nil, TileStats{}, fmt.Errorf("failed to write tile: %w", err)
			}
			count++
		}
	}

	if err := zw.Close(); err != nil {
		return nil, TileStats{}, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), TileStats{
		TileCount: count,
		SizeInMB:  float64(buf.Len()) / (1024 * 1024),
	}, nil
}

// tileRange converts a center+span viewport to an inclusive XYZ tile
// range at the region's zoom level (Web Mercator tiling).
func tileRange(region RegionRequest) (minX, maxX, minY, maxY int) {
	n := float64(int(1) << region.ZoomLevel)

	lonToX := func(lon float64) int {
		x := int((lon + 180) / 360 * n)
		return clampTile(x, int(n))
	}
	latToY := func(lat float64) int {
		rad := lat * math.Pi / 180
		y := int((1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2 * n)
		return clampTile(y, int(n))
	}

	minX = lonToX(region.Longitude - region.LongitudeDelta/2)
	maxX = lonToX(region.Longitude + region.LongitudeDelta/2)
	// Latitude grows north while tile Y grows south.
	minY = latToY(region.Latitude + region.LatitudeDelta/2)
	maxY = latToY(region.Latitude - region.LatitudeDelta/2)
	return minX, maxX, minY, maxY
}

func clampTile(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}
