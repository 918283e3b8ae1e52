package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(totalAmount float64, payerID int64, participants []SplitInput) error {
	return validateCommon(totalAmount, payerID, participants)
}

// Calculate divides the total amount equally among all participants. Each
// share is rounded to the cent on its own, so the shares may sum to slightly
// more or less than the total.
func (s *EqualStrategy) Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, payerID, participants); err != nil {
		return nil, err
	}

	share := roundToCents(totalAmount / float64(len(participants)))

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: share,
			AmountPaid: paidFor(p.UserID, payerID, totalAmount),
		}
	}

	return outputs, nil
}
