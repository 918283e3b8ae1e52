// Package split calculates per-participant obligations for an expense.
//
// Calculation is pure: the same inputs always produce the same outputs and
// nothing is persisted here. Every participant, payer included, receives an
// obligation; the payer's obligation additionally carries the full paid
// amount so that downstream balance deltas can be derived as paid - owed.
//
// Per-participant shares are rounded to the cent independently. The rounded
// shares are NOT reconciled against the expense total, so the sum can drift
// from it by up to half a cent per participant. Callers that need an exact
// match must supply exact amounts.
package split

import (
	"errors"
	"fmt"

	"github.com/divvyup/divvy/pkg/money"
)

// SplitType identifies one of the supported splitting strategies.
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypeEquity     SplitType = "EQUITY"
	SplitTypeExact      SplitType = "EXACT"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeShares     SplitType = "SHARES"
)

// SplitInput represents one participant with the per-strategy values that
// apply to them. Unused fields are left nil.
type SplitInput struct {
	UserID     int64    `json:"user_id"`
	Weight     *float64 `json:"weight,omitempty"`     // EQUITY
	Amount     *float64 `json:"amount,omitempty"`     // EXACT
	Percentage *float64 `json:"percentage,omitempty"` // PERCENTAGE
	Shares     *int     `json:"shares,omitempty"`     // SHARES
}

// SplitOutput is one participant's computed obligation.
type SplitOutput struct {
	UserID     int64   `json:"user_id"`
	AmountOwed float64 `json:"amount_owed"`
	AmountPaid float64 `json:"amount_paid"`
}

// Strategy is the interface every split strategy implements.
type Strategy interface {
	// Calculate computes one obligation per participant, payer included.
	Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error)

	// Type returns the type identifier for this strategy.
	Type() SplitType

	// Validate checks the inputs without computing anything.
	Validate(totalAmount float64, payerID int64, participants []SplitInput) error
}

// Factory creates split strategies. The strategy set is closed: anything
// outside the five SplitType constants is rejected here.
type Factory struct{}

// NewFactory creates a new factory instance.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given type.
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqual:
		return &EqualStrategy{}, nil
	case SplitTypeEquity:
		return &EquityStrategy{}, nil
	case SplitTypeExact:
		return &ExactStrategy{}, nil
	case SplitTypePercentage:
		return &PercentageStrategy{}, nil
	case SplitTypeShares:
		return &SharesStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSplitType, splitType)
	}
}

// CreateFromString creates a strategy from its string name, as received in
// API requests.
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

var (
	ErrUnknownSplitType     = errors.New("unknown split type")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
	ErrPayerNotParticipant  = errors.New("payer must be a participant")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrNegativeWeight       = errors.New("weights cannot be negative")
	ErrNegativeShares       = errors.New("share counts cannot be negative")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
)

// validateCommon checks the constraints shared by every strategy.
func validateCommon(totalAmount float64, payerID int64, participants []SplitInput) error {
	if totalAmount <= 0 {
		return ErrNonPositiveAmount
	}
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	for _, p := range participants {
		if p.UserID == payerID {
			return nil
		}
	}
	return ErrPayerNotParticipant
}

// paidFor returns the paid amount for one participant: the payer carries the
// full expense, everyone else zero.
func paidFor(userID, payerID int64, totalAmount float64) float64 {
	if userID == payerID {
		return totalAmount
	}
	return 0
}

func roundToCents(value float64) float64 {
	return money.Round(value)
}
