package limits

import (
	"testing"

	"github.com/goureshmadye/tripbuddy/internal/models"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		currentUsage int
		limit        int
		wantAllowed  bool
	}{
		{"below limit", KindTrip, 0, 3, true},
		{"one below limit", KindTrip, 2, 3, true},
		{"at limit", KindTrip, 3, 3, false},
		{"over limit", KindExpense, 30, 25, false},
		{"unlimited always allows", KindExpense, 1_000_000, Unlimited, true},
		{"unlimited with zero usage", KindCollaborator, 0, Unlimited, true},
		{"zero limit blocks first create", KindCollaborator, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.kind, tt.currentUsage, tt.limit)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Check(%s, %d, %d).Allowed = %v, want %v",
					tt.kind, tt.currentUsage, tt.limit, got.Allowed, tt.wantAllowed)
			}
			if !got.Allowed {
				if got.Reason != ReasonLimitReached {
					t.Errorf("Reason = %q, want %q", got.Reason, ReasonLimitReached)
				}
				if got.CurrentUsage != tt.currentUsage {
					t.Errorf("CurrentUsage = %d, want %d", got.CurrentUsage, tt.currentUsage)
				}
				if got.Limit != tt.limit {
					t.Errorf("Limit = %d, want %d", got.Limit, tt.limit)
				}
			}
			if got.Allowed && got.Reason != "" {
				t.Errorf("allowed decision should carry no reason, got %q", got.Reason)
			}
		})
	}
}

func TestForTier(t *testing.T) {
	free := ForTier(models.TierFree)
	if free.MaxTripsTotal == Unlimited {
		t.Error("free tier should cap trips")
	}

	teams := ForTier(models.TierTeams)
	if teams.MaxTripsTotal != Unlimited || teams.MaxCollaboratorsPerTrip != Unlimited {
		t.Errorf("teams tier should be unlimited, got %+v", teams)
	}

	// Unknown tiers fall back to the most restrictive set.
	if got := ForTier(models.PlanTier("enterprise")); got != free {
		t.Errorf("unknown tier = %+v, want free limits %+v", got, free)
	}
}

func TestForKind(t *testing.T) {
	l := Limits{MaxTripsTotal: 1, MaxCollaboratorsPerTrip: 2, MaxExpensesPerTrip: 3}
	if l.ForKind(KindTrip) != 1 || l.ForKind(KindCollaborator) != 2 || l.ForKind(KindExpense) != 3 {
		t.Errorf("ForKind mapping wrong: %+v", l)
	}
}
