package split

// =============================================================================
// SHARES SPLIT STRATEGY
// Divides the expense by share counts (e.g. a couple takes 2 shares)
// =============================================================================

// SharesStrategy implements the Strategy interface for share-count splits
type SharesStrategy struct{}

// Type returns the split type identifier
func (s *SharesStrategy) Type() SplitType {
	return SplitTypeShares
}

// Validate checks if the inputs are valid for a shares split
func (s *SharesStrategy) Validate(totalAmount float64, payerID int64, participants []SplitInput) error {
	if err := validateCommon(totalAmount, payerID, participants); err != nil {
		return err
	}
	for _, p := range participants {
		if p.Shares != nil && *p.Shares < 0 {
			return ErrNegativeShares
		}
	}
	return nil
}

// Calculate divides the total amount proportionally to each participant's
// share count. A participant without an explicit count takes one share.
func (s *SharesStrategy) Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, payerID, participants); err != nil {
		return nil, err
	}

	var totalShares int
	for _, p := range participants {
		totalShares += effectiveShares(p)
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: roundToCents(totalAmount * float64(effectiveShares(p)) / float64(totalShares)),
			AmountPaid: paidFor(p.UserID, payerID, totalAmount),
		}
	}

	return outputs, nil
}

func effectiveShares(p SplitInput) int {
	if p.Shares == nil || *p.Shares == 0 {
		return 1
	}
	return *p.Shares
}
