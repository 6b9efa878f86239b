package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goureshmadye/tripbuddy/internal/calculator"
	"github.com/goureshmadye/tripbuddy/internal/limits"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTrip(t *testing.T, store *sqlite.SQLiteStore, ownerID string, collaborators ...string) *models.Trip {
	t.Helper()

	trip := &models.Trip{OwnerID: ownerID, Name: "Test Trip", Collaborators: collaborators}
	if err := store.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func TestAddExpense(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	trip := createTrip(t, store, "alice", "bob")

	expense, err := svc.AddExpense(ctx, "alice", models.TierFree, AddExpenseInput{
		TripID:       trip.ID,
		PaidBy:       "alice",
		Description:  "Dinner",
		AmountMinor:  10000,
		Currency:     "EUR",
		Category:     models.CategoryFood,
		Policy:       models.SplitEqual,
		Participants: []string{"alice", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if expense.ID == "" {
		t.Error("expected generated expense ID")
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(expense.Splits))
	}
	var sum int64
	for _, s := range expense.Splits {
		sum += s.AmountMinor
	}
	if sum != 10000 {
		t.Errorf("splits sum to %d, want exactly 10000", sum)
	}

	// Persisted alongside the expense.
	stored, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if len(stored.Splits) != 3 {
		t.Errorf("stored %d splits, want 3", len(stored.Splits))
	}
}

func TestAddExpenseValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	trip := createTrip(t, store, "alice")

	tests := []struct {
		name  string
		input AddExpenseInput
	}{
		{
			name: "empty participants",
			input: AddExpenseInput{
				TripID: trip.ID, AmountMinor: 1000, Policy: models.SplitEqual,
			},
		},
		{
			name: "percentages not summing to 100",
			input: AddExpenseInput{
				TripID: trip.ID, AmountMinor: 10000, Policy: models.SplitPercentage,
				Participants: []string{"alice", "bob"},
				Percentages:  map[string]float64{"alice": 60, "bob": 30},
			},
		},
		{
			name: "custom amounts not matching total",
			input: AddExpenseInput{
				TripID: trip.ID, AmountMinor: 5000, Policy: models.SplitCustom,
				Participants:       []string{"alice", "bob"},
				CustomAmountsMinor: map[string]int64{"alice": 2000, "bob": 2500},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(ctx, "alice", models.TierFree, tt.input)
			if !calculator.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	// Nothing persisted for failed creates.
	count, err := store.CountExpenses(ctx, trip.ID)
	if err != nil {
		t.Fatalf("CountExpenses failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expense count = %d after failed creates, want 0", count)
	}
}

func TestAddExpenseLimitEnforcement(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	trip := createTrip(t, store, "alice")
	max := limits.ForTier(models.TierFree).MaxExpensesPerTrip

	input := AddExpenseInput{
		TripID:       trip.ID,
		PaidBy:       "alice",
		Description:  "Coffee",
		AmountMinor:  400,
		Policy:       models.SplitEqual,
		Participants: []string{"alice"},
	}
	for i := 0; i < max; i++ {
		if _, err := svc.AddExpense(ctx, "alice", models.TierFree, input); err != nil {
			t.Fatalf("AddExpense %d failed: %v", i, err)
		}
	}

	_, err := svc.AddExpense(ctx, "alice", models.TierFree, input)
	var limitErr *limits.Error
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected limits.Error at cap, got %v", err)
	}
	if limitErr.Decision.Reason != limits.ReasonLimitReached {
		t.Errorf("Reason = %q, want %q", limitErr.Decision.Reason, limits.ReasonLimitReached)
	}
	if limitErr.Decision.CurrentUsage != max || limitErr.Decision.Limit != max {
		t.Errorf("decision = %+v, want usage=limit=%d", limitErr.Decision, max)
	}

	// A pro-tier user on the same trip is not capped.
	if _, err := svc.AddExpense(ctx, "alice", models.TierPro, input); err != nil {
		t.Errorf("pro tier AddExpense failed: %v", err)
	}
}

func TestAddExpenseMembership(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	trip := createTrip(t, store, "alice")

	_, err := svc.AddExpense(ctx, "mallory", models.TierFree, AddExpenseInput{
		TripID:       trip.ID,
		AmountMinor:  1000,
		Policy:       models.SplitEqual,
		Participants: []string{"mallory"},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestTripBalances(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	trip := createTrip(t, store, "alice", "bob")

	_, err := svc.AddExpense(ctx, "alice", models.TierFree, AddExpenseInput{
		TripID:       trip.ID,
		PaidBy:       "alice",
		Description:  "Hotel",
		AmountMinor:  20000,
		Policy:       models.SplitEqual,
		Participants: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	members, edges, err := svc.TripBalances(ctx, "bob", trip.ID)
	if err != nil {
		t.Fatalf("TripBalances failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if edges[0].From != "bob" || edges[0].To != "alice" || edges[0].AmountMinor != 10000 {
		t.Errorf("edge = %+v, want bob owes alice 10000", edges[0])
	}
}
