// Package service implements the application operations the API
// exposes: limit-gated creates, split computation, and reads over the
// storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goureshmadye/tripbuddy/internal/limits"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

// ErrForbidden is returned when the user is not allowed to act on the
// requested resource.
var ErrForbidden = errors.New("not a member of this trip")

// isMember reports whether the user owns or collaborates on the trip.
func isMember(trip *models.Trip, userID string) bool {
	if trip.OwnerID == userID {
		return true
	}
	for _, c := range trip.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}

// TripService manages trips and collaborator invitations.
type TripService struct {
	store storage.Store
}

// NewTripService creates a TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTripInput carries the user-provided trip fields.
type CreateTripInput struct {
	Name        string
	Destination string
	StartDate   int64
	EndDate     int64
}

// CreateTrip creates a trip for the owner after checking the plan's
// trip limit. A denied limit check returns *limits.Error carrying the
// structured decision.
func (s *TripService) CreateTrip(ctx context.Context, ownerID string, tier models.PlanTier, input CreateTripInput) (*models.Trip, error) {
	count, err := s.store.CountTrips(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}

	decision := limits.Check(limits.KindTrip, count, limits.ForTier(tier).ForKind(limits.KindTrip))
	if !decision.Allowed {
		slog.Info("trip creation denied by limit",
			"owner_id", ownerID,
			"tier", tier,
			"usage", decision.CurrentUsage,
			"limit", decision.Limit,
		)
		return nil, &limits.Error{Kind: limits.KindTrip, Decision: decision}
	}

	trip := &models.Trip{
		OwnerID:     ownerID,
		Name:        input.Name,
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	slog.Info("trip created", "trip_id", trip.ID, "owner_id", ownerID)
	return trip, nil
}

// GetTrip retrieves a trip the user is a member of.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !isMember(trip, userID) {
		return nil, ErrForbidden
	}
	return trip, nil
}

// ListTrips returns the trips the user owns or collaborates on.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.store.ListTrips(ctx, userID)
}

// AddCollaborator invites a user to a trip after checking the
// inviter's collaborator limit. Only the trip owner may invite.
// Inviting an existing collaborator is a no-op.
func (s *TripService) AddCollaborator(ctx context.Context, inviterID string, tier models.PlanTier, tripID, collaboratorID string) error {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OwnerID != inviterID {
		return ErrForbidden
	}
	if collaboratorID == trip.OwnerID {
		return fmt.Errorf("owner is already a member")
	}

	invitee, err := s.store.GetUserByID(ctx, collaboratorID)
	if err != nil {
		return fmt.Errorf("failed to look up invitee: %w", err)
	}
	if invitee == nil {
		return storage.ErrNotFound
	}

	// Re-inviting an existing collaborator must not consume limit room.
	for _, c := range trip.Collaborators {
		if c == collaboratorID {
			return nil
		}
	}

	count, err := s.store.CountCollaborators(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to count collaborators: %w", err)
	}

	decision := limits.Check(limits.KindCollaborator, count, limits.ForTier(tier).ForKind(limits.KindCollaborator))
	if !decision.Allowed {
		slog.Info("collaborator invite denied by limit",
			"trip_id", tripID,
			"tier", tier,
			"usage", decision.CurrentUsage,
			"limit", decision.Limit,
		)
		return &limits.Error{Kind: limits.KindCollaborator, Decision: decision}
	}

	if err := s.store.AddCollaborator(ctx, tripID, collaboratorID); err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}

	slog.Info("collaborator added", "trip_id", tripID, "user_id", collaboratorID)
	return nil
}

// Usage reports the user's current usage against their plan limits for
// a given trip, in the shape the UI renders on the plan screen.
type Usage struct {
	Tier   models.PlanTier     `json:"tier"`
	Limits limits.Limits       `json:"limits"`
	Counts map[limits.Kind]int `json:"counts"`
}

// GetUsage returns current usage counters alongside the plan limits.
// tripID may be empty, in which case the per-trip counters are zero.
func (s *TripService) GetUsage(ctx context.Context, userID string, tier models.PlanTier, tripID string) (*Usage, error) {
	usage := &Usage{
		Tier:   tier,
		Limits: limits.ForTier(tier),
		Counts: make(map[limits.Kind]int),
	}

	trips, err := s.store.CountTrips(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}
	usage.Counts[limits.KindTrip] = trips

	if tripID != "" {
		collaborators, err := s.store.CountCollaborators(ctx, tripID)
		if err != nil {
			return nil, fmt.Errorf("failed to count collaborators: %w", err)
		}
		usage.Counts[limits.KindCollaborator] = collaborators

		expenses, err := s.store.CountExpenses(ctx, tripID)
		if err != nil {
			return nil, fmt.Errorf("failed to count expenses: %w", err)
		}
		usage.Counts[limits.KindExpense] = expenses
	}

	return usage, nil
}
