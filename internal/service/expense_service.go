package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goureshmadye/tripbuddy/internal/calculator"
	"github.com/goureshmadye/tripbuddy/internal/limits"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

// ExpenseService manages expenses: limit gate, split computation, and
// atomic persistence of the expense with its shares.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// AddExpenseInput carries the user-provided expense fields.
type AddExpenseInput struct {
	TripID      string
	PaidBy      string
	Description string
	AmountMinor int64
	Currency    string
	Category    models.ExpenseCategory
	Policy      models.SplitPolicy

	// Participants is the stable-ordered set of member IDs splitting
	// the expense. Order matters for remainder assignment.
	Participants []string

	// Percentages is required for the percentage policy.
	Percentages map[string]float64

	// CustomAmountsMinor is required for the custom policy.
	CustomAmountsMinor map[string]int64
}

// validatePaidBy checks that the payer is one of the participants.
func validatePaidBy(paidBy string, participants []string) error {
	if paidBy == "" {
		return nil // Optional field
	}
	for _, p := range participants {
		if p == paidBy {
			return nil
		}
	}
	return calculator.Validationf("paid_by %q must be one of the participants", paidBy)
}

// AddExpense checks the trip's expense limit, computes per-participant
// shares under the selected policy, and persists the expense with its
// splits in one transaction. A denied limit check returns
// *limits.Error; bad split input returns *calculator.ValidationError.
func (s *ExpenseService) AddExpense(ctx context.Context, userID string, tier models.PlanTier, input AddExpenseInput) (*models.Expense, error) {
	trip, err := s.store.GetTrip(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	if !isMember(trip, userID) {
		return nil, ErrForbidden
	}

	if input.Currency == "" {
		input.Currency = "USD"
	}
	if !input.Category.Valid() {
		input.Category = models.CategoryOther
	}
	if err := validatePaidBy(input.PaidBy, input.Participants); err != nil {
		return nil, err
	}

	count, err := s.store.CountExpenses(ctx, input.TripID)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}
	decision := limits.Check(limits.KindExpense, count, limits.ForTier(tier).ForKind(limits.KindExpense))
	if !decision.Allowed {
		slog.Info("expense creation denied by limit",
			"trip_id", input.TripID,
			"tier", tier,
			"usage", decision.CurrentUsage,
			"limit", decision.Limit,
		)
		return nil, &limits.Error{Kind: limits.KindExpense, Decision: decision}
	}

	shares, err := calculator.ComputeShares(input.AmountMinor, input.Participants, input.Policy, calculator.PolicyInput{
		Percentages:  input.Percentages,
		AmountsMinor: input.CustomAmountsMinor,
	})
	if err != nil {
		return nil, err
	}

	splits := make([]models.ExpenseSplit, len(shares))
	for i, share := range shares {
		splits[i] = models.ExpenseSplit{
			ParticipantID: share.ParticipantID,
			AmountMinor:   share.AmountMinor,
		}
	}

	expense := &models.Expense{
		TripID:      input.TripID,
		PaidBy:      input.PaidBy,
		Description: input.Description,
		AmountMinor: input.AmountMinor,
		Currency:    input.Currency,
		Category:    input.Category,
		Policy:      input.Policy,
		Splits:      splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("expense created",
		"expense_id", expense.ID,
		"trip_id", expense.TripID,
		"amount_minor", expense.AmountMinor,
		"policy", expense.Policy,
		"participants", len(splits),
	)
	return expense, nil
}

// ListExpenses returns a trip's expenses for a member.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, tripID string) ([]models.Expense, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !isMember(trip, userID) {
		return nil, ErrForbidden
	}
	return s.store.ListExpenses(ctx, tripID)
}

// DeleteExpense removes an expense (and, by cascade, its splits) from
// a trip the user is a member of.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	trip, err := s.store.GetTrip(ctx, expense.TripID)
	if err != nil {
		return err
	}
	if !isMember(trip, userID) {
		return ErrForbidden
	}
	return s.store.DeleteExpense(ctx, expenseID)
}

// TripBalances aggregates a trip's expenses into per-member balances
// and a simplified who-pays-whom list.
func (s *ExpenseService) TripBalances(ctx context.Context, userID, tripID string) ([]calculator.MemberBalance, []calculator.DebtEdge, error) {
	expenses, err := s.ListExpenses(ctx, userID, tripID)
	if err != nil {
		return nil, nil, err
	}

	forBalance := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, split := range e.Splits {
			shares[j] = calculator.Share{
				ParticipantID: split.ParticipantID,
				AmountMinor:   split.AmountMinor,
			}
		}
		forBalance[i] = calculator.ExpenseForBalance{
			PaidBy:      e.PaidBy,
			AmountMinor: e.AmountMinor,
			Shares:      shares,
		}
	}

	members, edges := calculator.CalculateTripBalances(forBalance, nil)
	return members, edges, nil
}
