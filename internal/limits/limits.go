// Package limits gates create-operations (new trip, new collaborator,
// new expense) against subscription plan limits before they reach the
// store, so the common over-limit case gets immediate feedback instead
// of a rejected write.
package limits

import (
	"fmt"

	"github.com/goureshmadye/tripbuddy/internal/models"
)

// Unlimited marks a limit with no upper bound.
const Unlimited = -1

// Kind identifies the counted entity a create-operation would add.
type Kind string

const (
	KindTrip         Kind = "trip"
	KindCollaborator Kind = "collaborator"
	KindExpense      Kind = "expense"
)

// Valid reports whether the kind is one of the known counted entities.
func (k Kind) Valid() bool {
	switch k {
	case KindTrip, KindCollaborator, KindExpense:
		return true
	}
	return false
}

// ReasonLimitReached is the only denial reason a Decision carries.
const ReasonLimitReached = "limit_reached"

// Limits holds the per-tier caps. Unlimited (-1) means no cap.
type Limits struct {
	MaxTripsTotal           int `json:"max_trips_total"`
	MaxCollaboratorsPerTrip int `json:"max_collaborators_per_trip"`
	MaxExpensesPerTrip      int `json:"max_expenses_per_trip"`
}

// ForKind returns the cap that applies to the given entity kind.
func (l Limits) ForKind(kind Kind) int {
	switch kind {
	case KindTrip:
		return l.MaxTripsTotal
	case KindCollaborator:
		return l.MaxCollaboratorsPerTrip
	case KindExpense:
		return l.MaxExpensesPerTrip
	}
	return Unlimited
}

// tierLimits is the authoritative tier table. Immutable at runtime.
var tierLimits = map[models.PlanTier]Limits{
	models.TierFree: {
		MaxTripsTotal:           3,
		MaxCollaboratorsPerTrip: 2,
		MaxExpensesPerTrip:      25,
	},
	models.TierPro: {
		MaxTripsTotal:           Unlimited,
		MaxCollaboratorsPerTrip: 10,
		MaxExpensesPerTrip:      Unlimited,
	},
	models.TierTeams: {
		MaxTripsTotal:           Unlimited,
		MaxCollaboratorsPerTrip: Unlimited,
		MaxExpensesPerTrip:      Unlimited,
	},
}

// ForTier returns the limits for a plan tier. Unknown tiers get the
// free tier's limits, the most restrictive set.
func ForTier(tier models.PlanTier) Limits {
	if l, ok := tierLimits[tier]; ok {
		return l
	}
	return tierLimits[models.TierFree]
}

// Decision is the outcome of a limit check. When denied, CurrentUsage
// and Limit are echoed back for display alongside the reason.
type Decision struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	CurrentUsage int    `json:"current_usage,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// Check decides whether one more entity of the given kind may be
// created. It is a pure, total function: an unlimited cap always
// allows, otherwise creation is allowed while currentUsage < limit.
func Check(kind Kind, currentUsage, limit int) Decision {
	if limit == Unlimited {
		return Decision{Allowed: true}
	}
	if currentUsage < limit {
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed:      false,
		Reason:       ReasonLimitReached,
		CurrentUsage: currentUsage,
		Limit:        limit,
	}
}

// Error wraps a denying Decision so callers can surface the structured
// payload (and an upgrade prompt) instead of a bare error string.
type Error struct {
	Kind     Kind
	Decision Decision
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Kind, e.Decision.CurrentUsage, e.Decision.Limit)
}
