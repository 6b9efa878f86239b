// Package calculator computes expense shares and trip balances.
// All money is handled in currency minor units (int64) so shares always
// sum exactly to the input amount.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/goureshmadye/tripbuddy/internal/models"
)

// percentEpsilon is the tolerance when checking that percentages sum
// to 100. Matches two-decimal percentage input.
const percentEpsilon = 0.01

// ValidationError reports bad split input (empty participants,
// non-positive amount, percentages not summing to 100, custom amounts
// not matching the total). It is distinct from transient failures so
// the caller can surface an inline correction message.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Validationf creates a ValidationError, for callers validating
// expense input adjacent to the share computation.
func Validationf(format string, args ...any) *ValidationError {
	return validationf(format, args...)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Share is one participant's computed share of an expense.
type Share struct {
	ParticipantID string
	AmountMinor   int64
}

// PolicyInput carries the per-participant inputs for the percentage and
// custom policies. The equal policy needs neither field.
type PolicyInput struct {
	// Percentages maps participant ID to a percentage of the total.
	// Required for SplitPercentage; must cover every participant and
	// sum to 100 within percentEpsilon.
	Percentages map[string]float64

	// AmountsMinor maps participant ID to an exact share in minor
	// units. Required for SplitCustom; must sum to the expense amount.
	AmountsMinor map[string]int64
}

// ComputeShares computes each participant's share of amountMinor under
// the given policy. It is a pure function: persistence of the resulting
// shares is the caller's responsibility.
//
// Shares always sum exactly to amountMinor. For the equal policy the
// remainder of the integer division goes to the first
// amountMinor mod n participants in the caller-supplied order; for the
// percentage policy each share is rounded half-away-from-zero and the
// residual minor units go to the first participant.
func ComputeShares(amountMinor int64, participants []string, policy models.SplitPolicy, input PolicyInput) ([]Share, error) {
	if len(participants) == 0 {
		return nil, validationf("at least one participant is required")
	}
	if amountMinor <= 0 {
		return nil, validationf("amount must be positive, got %d", amountMinor)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return nil, validationf("participant id cannot be empty")
		}
		if seen[p] {
			return nil, validationf("duplicate participant %q", p)
		}
		seen[p] = true
	}

	switch policy {
	case models.SplitEqual:
		return equalShares(amountMinor, participants), nil
	case models.SplitPercentage:
		return percentageShares(amountMinor, participants, input.Percentages)
	case models.SplitCustom:
		return customShares(amountMinor, participants, input.AmountsMinor)
	}
	return nil, validationf("unknown split policy %q", policy)
}

func equalShares(amountMinor int64, participants []string) []Share {
	n := int64(len(participants))
	base := amountMinor / n
	remainder := amountMinor % n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		share := base
		if int64(i) < remainder {
			share++
		}
		shares[i] = Share{ParticipantID: p, AmountMinor: share}
	}
	return shares
}

func percentageShares(amountMinor int64, participants []string, percentages map[string]float64) ([]Share, error) {
	if len(percentages) != len(participants) {
		return nil, validationf("percentage for every participant is required")
	}

	var sum float64
	for _, p := range participants {
		pct, ok := percentages[p]
		if !ok {
			return nil, validationf("missing percentage for participant %q", p)
		}
		if pct < 0 {
			return nil, validationf("percentage for %q cannot be negative", p)
		}
		sum += pct
	}
	if math.Abs(sum-100) > percentEpsilon {
		return nil, validationf("percentages must sum to 100, got %.2f", sum)
	}

	shares := make([]Share, len(participants))
	var allocated int64
	for i, p := range participants {
		share := int64(math.Round(float64(amountMinor) * percentages[p] / 100))
		shares[i] = Share{ParticipantID: p, AmountMinor: share}
		allocated += share
	}

	// Per-share rounding can leave a few minor units unallocated (or
	// over-allocated); reconcile against the first participant so the
	// sum is exact.
	shares[0].AmountMinor += amountMinor - allocated
	return shares, nil
}

func customShares(amountMinor int64, participants []string, amounts map[string]int64) ([]Share, error) {
	if len(amounts) != len(participants) {
		return nil, validationf("amount for every participant is required")
	}

	shares := make([]Share, len(participants))
	var sum int64
	for i, p := range participants {
		amt, ok := amounts[p]
		if !ok {
			return nil, validationf("missing amount for participant %q", p)
		}
		if amt < 0 {
			return nil, validationf("amount for %q cannot be negative", p)
		}
		shares[i] = Share{ParticipantID: p, AmountMinor: amt}
		sum += amt
	}
	if sum != amountMinor {
		return nil, validationf("custom amounts sum to %d, expense total is %d", sum, amountMinor)
	}
	return shares, nil
}
