package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanTier is a named subscription level. Each tier maps to a set of
// usage limits (see internal/limits).
type PlanTier string

const (
	TierFree  PlanTier = "free"
	TierPro   PlanTier = "pro"
	TierTeams PlanTier = "teams"
)

// Valid reports whether the tier is one of the known plan tiers.
func (t PlanTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierTeams:
		return true
	}
	return false
}

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown to collaborators.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string

	// Tier is the user's subscription plan tier.
	// New accounts start on the free tier.
	Tier PlanTier

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a User with a generated ID, the free tier, and
// current timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Tier:         TierFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
