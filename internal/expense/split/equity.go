package split

// =============================================================================
// EQUITY SPLIT STRATEGY
// Divides the expense proportionally to each participant's income weight
// =============================================================================

// fallbackWeight is used for participants with no weight, or a zero weight,
// so that the weight sum can never be zero.
const fallbackWeight = 1.0

// EquityStrategy implements the Strategy interface for weighted splits
type EquityStrategy struct{}

// Type returns the split type identifier
func (s *EquityStrategy) Type() SplitType {
	return SplitTypeEquity
}

// Validate checks if the inputs are valid for an equity split
func (s *EquityStrategy) Validate(totalAmount float64, payerID int64, participants []SplitInput) error {
	if err := validateCommon(totalAmount, payerID, participants); err != nil {
		return err
	}
	for _, p := range participants {
		if p.Weight != nil && *p.Weight < 0 {
			return ErrNegativeWeight
		}
	}
	return nil
}

// Calculate divides the total amount proportionally to each participant's
// weight. A missing or zero weight counts as 1.
func (s *EquityStrategy) Calculate(totalAmount float64, payerID int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(totalAmount, payerID, participants); err != nil {
		return nil, err
	}

	var totalWeight float64
	for _, p := range participants {
		totalWeight += effectiveWeight(p)
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: roundToCents(totalAmount * effectiveWeight(p) / totalWeight),
			AmountPaid: paidFor(p.UserID, payerID, totalAmount),
		}
	}

	return outputs, nil
}

func effectiveWeight(p SplitInput) float64 {
	if p.Weight == nil || *p.Weight == 0 {
		return fallbackWeight
	}
	return *p.Weight
}
