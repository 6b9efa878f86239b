// Package cache maintains the offline cache: a local inventory of
// downloaded documents and map regions that answers "is X cached?"
// without a network round-trip.
//
// The manager owns the inventory records exclusively; all reads and
// writes go through it. Downloads follow a write-then-record contract:
// bytes are durably stored before the metadata record is inserted, so
// a failed or abandoned download never leaves a partial record.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/goureshmadye/tripbuddy/internal/metrics"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

// ErrBusy is returned when a download or removal is already in flight
// for the same id. Callers retry once the first operation settles.
var ErrBusy = errors.New("operation already in flight for this id")

// estimatedTileKiB is the assumed average tile size when the tile
// fetcher cannot report real sizes.
const estimatedTileKiB = 15

// DocumentRequest describes a document to download for offline use.
type DocumentRequest struct {
	ID       string
	TripID   string
	FileName string
	URL      string
	FileType string
}

// RegionRequest describes a map region to download for offline use.
type RegionRequest struct {
	ID             string
	TripID         string
	Name           string
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
	ZoomLevel      int
}

// Manager tracks which remote documents and map regions have been
// downloaded, persists their metadata, and computes aggregate size.
type Manager struct {
	records storage.OfflineStore
	blobs   BlobStore
	fetch   Fetcher
	tiles   TileFetcher

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewManager creates a cache manager over the given record store, blob
// store, and fetchers.
func NewManager(records storage.OfflineStore, blobs BlobStore, fetch Fetcher, tiles TileFetcher) *Manager {
	return &Manager{
		records:  records,
		blobs:    blobs,
		fetch:    fetch,
		tiles:    tiles,
		inflight: make(map[string]struct{}),
	}
}

// acquire reserves an id for a single in-flight operation. Overlapping
// download/remove calls for the same id must not interleave, or a
// remove could race a download and leave an orphaned blob or a record
// pointing at deleted bytes.
func (m *Manager) acquire(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[id]; busy {
		return false
	}
	m.inflight[id] = struct{}{}
	return true
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, id)
}

// IsDocumentCached reports whether a record exists for the document.
// It trusts the metadata record and does not verify the on-disk bytes;
// a stale record self-heals on removal or re-download.
func (m *Manager) IsDocumentCached(ctx context.Context, documentID string) bool {
	doc, err := m.records.GetCachedDocument(ctx, documentID)
	if err != nil {
		slog.Warn("cache lookup failed", "document_id", documentID, "error", err)
		return false
	}
	return doc != nil
}

// DownloadDocument fetches the document, stores its bytes, and records
// it in the inventory. Any failure returns false with no record left
// behind; the caller offers a retry.
func (m *Manager) DownloadDocument(ctx context.Context, req DocumentRequest) bool {
	if !m.acquire(req.ID) {
		slog.Warn("document download rejected, id busy", "document_id", req.ID)
		return false
	}
	defer m.release(req.ID)

	data, err := m.fetch.Fetch(ctx, req.URL)
	if err != nil {
		slog.Warn("document fetch failed", "document_id", req.ID, "url", req.URL, "error", err)
		metrics.RecordCacheDownload("document", false)
		return false
	}

	uri, err := m.blobs.Write(documentKey(req.ID), data)
	if err != nil {
		slog.Error("document blob write failed", "document_id", req.ID, "error", err)
		metrics.RecordCacheDownload("document", false)
		return false
	}

	doc := &models.CachedDocument{
		ID:            req.ID,
		TripID:        req.TripID,
		FileName:      req.FileName,
		FileSizeBytes: int64(len(data)),
		LocalURI:      uri,
		DownloadedAt:  time.Now().Unix(),
	}
	if err := m.records.PutCachedDocument(ctx, doc); err != nil {
		slog.Error("document record insert failed", "document_id", req.ID, "error", err)
		// Roll the blob back so no bytes survive without a record.
		if derr := m.blobs.Delete(documentKey(req.ID)); derr != nil {
			slog.Warn("orphaned blob cleanup failed", "document_id", req.ID, "error", derr)
		}
		metrics.RecordCacheDownload("document", false)
		return false
	}

	slog.Info("document cached",
		"document_id", req.ID,
		"trip_id", req.TripID,
		"file_type", req.FileType,
		"size_bytes", doc.FileSizeBytes,
	)
	metrics.RecordCacheDownload("document", true)
	return true
}

// RemoveDocument deletes the stored bytes and the inventory record.
// Removing an absent id is a successful no-op.
func (m *Manager) RemoveDocument(ctx context.Context, documentID string) error {
	if !m.acquire(documentID) {
		return ErrBusy
	}
	defer m.release(documentID)

	if err := m.blobs.Delete(documentKey(documentID)); err != nil {
		return fmt.Errorf("failed to delete document bytes: %w", err)
	}
	if err := m.records.DeleteCachedDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}
	return nil
}

// DownloadMapRegion fetches the region's tiles, stores them, and
// records the region in the inventory. When the tile fetcher cannot
// report real sizes, tile count and size are estimated from the
// viewport; the cache size invariant is defined over recorded sizes,
// not physical disk usage.
func (m *Manager) DownloadMapRegion(ctx context.Context, req RegionRequest) bool {
	if !m.acquire(req.ID) {
		slog.Warn("region download rejected, id busy", "region_id", req.ID)
		return false
	}
	defer m.release(req.ID)

	data, stats, err := m.tiles.FetchRegion(ctx, req)
	if err != nil {
		slog.Warn("region fetch failed", "region_id", req.ID, "name", req.Name, "error", err)
		metrics.RecordCacheDownload("region", false)
		return false
	}

	if _, err := m.blobs.Write(regionKey(req.ID), data); err != nil {
		slog.Error("region blob write failed", "region_id", req.ID, "error", err)
		metrics.RecordCacheDownload("region", false)
		return false
	}

	if stats.TileCount == 0 {
		stats = estimateTileStats(req)
	}

	region := &models.OfflineMapRegion{
		ID:             req.ID,
		TripID:         req.TripID,
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LatitudeDelta:  req.LatitudeDelta,
		LongitudeDelta: req.LongitudeDelta,
		ZoomLevel:      req.ZoomLevel,
		TileCount:      stats.TileCount,
		SizeInMB:       stats.SizeInMB,
		DownloadedAt:   time.Now().Unix(),
	}
	if err := m.records.PutMapRegion(ctx, region); err != nil {
		slog.Error("region record insert failed", "region_id", req.ID, "error", err)
		if derr := m.blobs.Delete(regionKey(req.ID)); derr != nil {
			slog.Warn("orphaned blob cleanup failed", "region_id", req.ID, "error", derr)
		}
		metrics.RecordCacheDownload("region", false)
		return false
	}

	slog.Info("map region cached",
		"region_id", req.ID,
		"trip_id", req.TripID,
		"tiles", region.TileCount,
		"size_mb", region.SizeInMB,
	)
	metrics.RecordCacheDownload("region", true)
	return true
}

// RemoveMapRegion deletes the stored tiles and the inventory record.
// Removing an absent id is a successful no-op.
func (m *Manager) RemoveMapRegion(ctx context.Context, regionID string) error {
	if !m.acquire(regionID) {
		return ErrBusy
	}
	defer m.release(regionID)

	if err := m.blobs.Delete(regionKey(regionID)); err != nil {
		return fmt.Errorf("failed to delete region bytes: %w", err)
	}
	if err := m.records.DeleteMapRegion(ctx, regionID); err != nil {
		return fmt.Errorf("failed to delete region record: %w", err)
	}
	return nil
}

// CachedDocuments returns inventory records in insertion order,
// optionally filtered by trip (empty tripID means all). Callers must
// not rely on the order being meaningful.
func (m *Manager) CachedDocuments(ctx context.Context, tripID string) ([]models.CachedDocument, error) {
	return m.records.ListCachedDocuments(ctx, tripID)
}

// CachedMapRegions returns region records in insertion order,
// optionally filtered by trip. A trip with at least one region counts
// as available offline.
func (m *Manager) CachedMapRegions(ctx context.Context, tripID string) ([]models.OfflineMapRegion, error) {
	return m.records.ListMapRegions(ctx, tripID)
}

// ClearCache removes every cached document and map region. The clear
// is best-effort: a failing item does not stop the others, and the
// size summary afterwards reflects whatever survived.
func (m *Manager) ClearCache(ctx context.Context) error {
	var errs []error

	docs, err := m.records.ListCachedDocuments(ctx, "")
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to list documents: %w", err))
	}
	for _, doc := range docs {
		if err := m.RemoveDocument(ctx, doc.ID); err != nil {
			errs = append(errs, fmt.Errorf("document %s: %w", doc.ID, err))
		}
	}

	regions, err := m.records.ListMapRegions(ctx, "")
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to list regions: %w", err))
	}
	for _, region := range regions {
		if err := m.RemoveMapRegion(ctx, region.ID); err != nil {
			errs = append(errs, fmt.Errorf("region %s: %w", region.ID, err))
		}
	}

	return errors.Join(errs...)
}

// RefreshCacheSize recomputes the storage summary from the persisted
// records. Recomputation (rather than incremental counters) keeps the
// total from ever drifting from the inventory.
func (m *Manager) RefreshCacheSize(ctx context.Context) (models.CacheSizeSummary, error) {
	docs, err := m.records.ListCachedDocuments(ctx, "")
	if err != nil {
		return models.CacheSizeSummary{}, fmt.Errorf("failed to list documents: %w", err)
	}
	regions, err := m.records.ListMapRegions(ctx, "")
	if err != nil {
		return models.CacheSizeSummary{}, fmt.Errorf("failed to list regions: %w", err)
	}

	var summary models.CacheSizeSummary
	for _, doc := range docs {
		summary.DocumentBytes += doc.FileSizeBytes
	}
	for _, region := range regions {
		summary.MapBytes += int64(math.Round(region.SizeInMB * 1024 * 1024))
	}
	summary.TotalBytes = summary.DocumentBytes + summary.MapBytes
	summary.Formatted = models.FormatBytes(summary.TotalBytes)

	metrics.SetCacheRecordedBytes(summary.TotalBytes)
	return summary, nil
}

// estimateTileStats approximates tile count and size from the viewport
// when the fetcher could not observe real sizes.
func estimateTileStats(req RegionRequest) TileStats {
	minX, maxX, minY, maxY := tileRange(req)
	count := (maxX - minX + 1) * (maxY - minY + 1)
	return TileStats{
		TileCount: count,
		SizeInMB:  float64(count) * estimatedTileKiB / 1024,
	}
}

func documentKey(id string) string { return "documents/" + id }
func regionKey(id string) string   { return "regions/" + id + ".zip" }
