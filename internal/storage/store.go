// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/goureshmadye/tripbuddy/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore defines user persistence operations.
// Lookups return (nil, nil) when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TripStore defines trip and collaborator persistence operations.
// The Count methods back the usage counters the limit checks read;
// they are recomputed SQL counts, never incrementally tracked.
type TripStore interface {
	// CreateTrip persists a new trip. ID and CreatedAt are populated
	// by the store when unset.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its collaborators.
	// Returns ErrNotFound if the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTrips returns trips the user owns or collaborates on.
	ListTrips(ctx context.Context, userID string) ([]models.Trip, error)

	// AddCollaborator adds a user to a trip. Adding an existing
	// collaborator is a no-op.
	AddCollaborator(ctx context.Context, tripID, userID string) error

	CountTrips(ctx context.Context, ownerID string) (int, error)
	CountCollaborators(ctx context.Context, tripID string) (int, error)
}

// ExpenseStore defines expense persistence operations. An expense and
// its splits are written in a single transaction and deleted together.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a trip's expenses with splits, newest first.
	ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error)

	// DeleteExpense removes an expense and its splits (cascade).
	// Deleting an absent expense is a no-op.
	DeleteExpense(ctx context.Context, expenseID string) error

	CountExpenses(ctx context.Context, tripID string) (int, error)
}

// OfflineStore persists the offline cache inventory. It is owned
// exclusively by the cache manager; no other component writes to it.
type OfflineStore interface {
	// PutCachedDocument inserts a document record, replacing any
	// existing record with the same ID (re-download semantics).
	PutCachedDocument(ctx context.Context, doc *models.CachedDocument) error

	// GetCachedDocument returns (nil, nil) when no record exists.
	GetCachedDocument(ctx context.Context, id string) (*models.CachedDocument, error)

	// ListCachedDocuments returns records in insertion order,
	// optionally filtered by trip (empty tripID means all).
	ListCachedDocuments(ctx context.Context, tripID string) ([]models.CachedDocument, error)

	// DeleteCachedDocument removes a record; absent IDs are a no-op.
	DeleteCachedDocument(ctx context.Context, id string) error

	PutMapRegion(ctx context.Context, region *models.OfflineMapRegion) error
	GetMapRegion(ctx context.Context, id string) (*models.OfflineMapRegion, error)
	ListMapRegions(ctx context.Context, tripID string) ([]models.OfflineMapRegion, error)
	DeleteMapRegion(ctx context.Context, id string) error
}

// Store aggregates all persistence concerns. The abstraction allows
// swapping storage backends without changing the service layer.
type Store interface {
	UserStore
	TripStore
	ExpenseStore
	OfflineStore

	// Close releases any resources held by the store.
	Close() error
}
