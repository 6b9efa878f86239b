package models

import "fmt"

// CachedDocument represents one file downloaded for offline use.
// Records are never mutated in place: a re-download replaces the record.
type CachedDocument struct {
	// ID is the unique identifier for the document (UUID format).
	ID string

	// TripID is the trip that owns the document.
	TripID string

	// FileName is the original file name shown in the UI.
	FileName string

	// FileSizeBytes is the observed byte length of the stored file.
	FileSizeBytes int64

	// LocalURI is the opaque handle the blob store assigned to the
	// stored bytes.
	LocalURI string

	// DownloadedAt is the Unix timestamp of the successful download.
	DownloadedAt int64
}

// OfflineMapRegion represents one downloaded map tile-region.
// A trip with at least one region counts as "available offline";
// there is no dedicated flag.
type OfflineMapRegion struct {
	// ID is the unique identifier for the region (UUID format).
	ID string

	// TripID is the trip that owns the region.
	TripID string

	// Name is the display name of the region.
	Name string

	// Latitude and Longitude are the viewport center.
	Latitude  float64
	Longitude float64

	// LatitudeDelta and LongitudeDelta are the viewport span in degrees.
	LatitudeDelta  float64
	LongitudeDelta float64

	// ZoomLevel is the tile zoom the region was fetched at.
	ZoomLevel int

	// TileCount is the number of tiles stored (or estimated).
	TileCount int

	// SizeInMB is the recorded (or estimated) size of the region.
	SizeInMB float64

	// DownloadedAt is the Unix timestamp of the successful download.
	DownloadedAt int64
}

// CacheSizeSummary reports aggregate offline storage use. It is derived
// on demand by summing the persisted inventory records and is never
// persisted itself, so the total cannot drift from the records.
type CacheSizeSummary struct {
	DocumentBytes int64
	MapBytes      int64
	TotalBytes    int64

	// Formatted is TotalBytes rendered for display, e.g. "12.4 MB".
	Formatted string
}

// FormatBytes renders a byte count for display.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
