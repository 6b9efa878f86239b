package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goureshmadye/tripbuddy/internal/models"
)

// PutCachedDocument inserts a document record. A record with the same
// ID is replaced, matching re-download semantics.
func (s *SQLiteStore) PutCachedDocument(ctx context.Context, doc *models.CachedDocument) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cached_documents (id, trip_id, file_name, file_size_bytes, local_uri, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.TripID, doc.FileName, doc.FileSizeBytes, doc.LocalURI, doc.DownloadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put cached document: %w", err)
	}
	return nil
}

// GetCachedDocument returns (nil, nil) when no record exists.
func (s *SQLiteStore) GetCachedDocument(ctx context.Context, id string) (*models.CachedDocument, error) {
	doc := &models.CachedDocument{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, file_name, file_size_bytes, local_uri, downloaded_at
		 FROM cached_documents WHERE id = ?`,
		id,
	).Scan(&doc.ID, &doc.TripID, &doc.FileName, &doc.FileSizeBytes, &doc.LocalURI, &doc.DownloadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached document: %w", err)
	}
	return doc, nil
}

// ListCachedDocuments returns records in insertion order. Empty tripID
// means all records.
func (s *SQLiteStore) ListCachedDocuments(ctx context.Context, tripID string) ([]models.CachedDocument, error) {
	query := `SELECT id, trip_id, file_name, file_size_bytes, local_uri, downloaded_at
	          FROM cached_documents`
	args := []any{}
	if tripID != "" {
		query += " WHERE trip_id = ?"
		args = append(args, tripID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached documents: %w", err)
	}
	defer rows.Close()

	var docs []models.CachedDocument
	for rows.Next() {
		var doc models.CachedDocument
		if err := rows.Scan(&doc.ID, &doc.TripID, &doc.FileName, &doc.FileSizeBytes,
			&doc.LocalURI, &doc.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached documents: %w", err)
	}

	return docs, nil
}

// DeleteCachedDocument removes a record; absent IDs are a no-op.
func (s *SQLiteStore) DeleteCachedDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cached_documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cached document: %w", err)
	}
	return nil
}

// PutMapRegion inserts a map region record, replacing any existing
// record with the same ID.
func (s *SQLiteStore) PutMapRegion(ctx context.Context, region *models.OfflineMapRegion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO offline_map_regions
		 (id, trip_id, name, latitude, longitude, latitude_delta, longitude_delta, zoom_level, tile_count, size_in_mb, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		region.ID, region.TripID, region.Name, region.Latitude, region.Longitude,
		region.LatitudeDelta, region.LongitudeDelta, region.ZoomLevel,
		region.TileCount, region.SizeInMB, region.DownloadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put map region: %w", err)
	}
	return nil
}

// GetMapRegion returns (nil, nil) when no record exists.
func (s *SQLiteStore) GetMapRegion(ctx context.Context, id string) (*models.OfflineMapRegion, error) {
	region := &models.OfflineMapRegion{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, name, latitude, longitude, latitude_delta, longitude_delta, zoom_level, tile_count, size_in_mb, downloaded_at
		 FROM offline_map_regions WHERE id = ?`,
		id,
	).Scan(&region.ID, &region.TripID, &region.Name, &region.Latitude, &region.Longitude,
		&region.LatitudeDelta, &region.LongitudeDelta, &region.ZoomLevel,
		&region.TileCount, &region.SizeInMB, &region.DownloadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get map region: %w", err)
	}
	return region, nil
}

// ListMapRegions returns records in insertion order. Empty tripID means
// all records.
func (s *SQLiteStore) ListMapRegions(ctx context.Context, tripID string) ([]models.OfflineMapRegion, error) {
	query := `SELECT id, trip_id, name, latitude, longitude, latitude_delta, longitude_delta, zoom_level, tile_count, size_in_mb, downloaded_at
	          FROM offline_map_regions`
	args := []any{}
	if tripID != "" {
		query += " WHERE trip_id = ?"
		args = append(args, tripID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list map regions: %w", err)
	}
	defer rows.Close()

	var regions []models.OfflineMapRegion
	for rows.Next() {
		var region models.OfflineMapRegion
		if err := rows.Scan(&region.ID, &region.TripID, &region.Name, &region.Latitude, &region.Longitude,
			&region.LatitudeDelta, &region.LongitudeDelta, &region.ZoomLevel,
			&region.TileCount, &region.SizeInMB, &region.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan map region: %w", err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate map regions: %w", err)
	}

	return regions, nil
}

// DeleteMapRegion removes a record; absent IDs are a no-op.
func (s *SQLiteStore) DeleteMapRegion(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM offline_map_regions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete map region: %w", err)
	}
	return nil
}
