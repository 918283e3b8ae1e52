package split

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on specified percentages for each participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split. Every
// participant must carry a percentage in [0, 100]. The percentages are not
// required to sum to 100; an off-total set is the caller's responsibility.
func (s *PercentageStrategy) Validate(totalAmount float64, payerID int64, participants []SplitInput) error {
	if err := validateCommon(totalAmount, payerID, participants); err != nil {
		return err
	}
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
	}
	return nil
}

// Calculate divides the total amount according to each participant's
// percentage.
func (s *PercentageStrategy) Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, payerID, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: roundToCents(totalAmount * (*p.Percentage) / 100),
			AmountPaid: paidFor(p.UserID, payerID, totalAmount),
		}
	}

	return outputs, nil
}
