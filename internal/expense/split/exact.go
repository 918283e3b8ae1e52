package split

// =============================================================================
// EXACT SPLIT STRATEGY
// Each participant owes a caller-specified exact amount
// =============================================================================

// ExactStrategy implements the Strategy interface for exact amount splits
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() SplitType {
	return SplitTypeExact
}

// Validate checks if the inputs are valid for an exact split. Every
// participant must carry a non-negative amount. Whether the amounts sum to
// the expense total is the caller's responsibility; a mismatch is not
// rejected here and shows up as balance drift in the group.
func (s *ExactStrategy) Validate(totalAmount float64, payerID int64, participants []SplitInput) error {
	if err := validateCommon(totalAmount, payerID, participants); err != nil {
		return err
	}
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// Calculate passes the specified amounts through, rounded to the cent.
func (s *ExactStrategy) Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, payerID, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: roundToCents(*p.Amount),
			AmountPaid: paidFor(p.UserID, payerID, totalAmount),
		}
	}

	return outputs, nil
}
