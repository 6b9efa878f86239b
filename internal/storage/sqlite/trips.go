package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

// CreateTrip persists a new trip and its initial collaborators.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, owner_id, name, destination, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		trip.ID, trip.OwnerID, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, userID := range trip.Collaborators {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_collaborators (trip_id, user_id) VALUES (?, ?)",
			trip.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert collaborator: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, including its collaborators.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, destination, start_date, end_date, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM trip_collaborators WHERE trip_id = ? ORDER BY user_id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		trip.Collaborators = append(trip.Collaborators, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collaborators: %w", err)
	}

	return trip, nil
}

// ListTrips returns trips the user owns or collaborates on, newest first.
func (s *SQLiteStore) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.id, t.owner_id, t.name, t.destination, t.start_date, t.end_date, t.created_at
		FROM trips t
		LEFT JOIN trip_collaborators c ON c.trip_id = t.id
		WHERE t.owner_id = ? OR c.user_id = ?
		ORDER BY t.created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		if err := rows.Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.Destination,
			&trip.StartDate, &trip.EndDate, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

// AddCollaborator adds a user to a trip. Adding an existing collaborator
// is a no-op.
func (s *SQLiteStore) AddCollaborator(ctx context.Context, tripID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO trip_collaborators (trip_id, user_id) VALUES (?, ?)",
		tripID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}
	return nil
}

// CountTrips returns the number of trips the user owns.
func (s *SQLiteStore) CountTrips(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM trips WHERE owner_id = ?", ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

// CountCollaborators returns the number of collaborators on a trip.
func (s *SQLiteStore) CountCollaborators(ctx context.Context, tripID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM trip_collaborators WHERE trip_id = ?", tripID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collaborators: %w", err)
	}
	return count, nil
}
