package split

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// assertPayerInvariant checks that exactly one obligation carries the full
// paid amount and that it belongs to the payer.
func assertPayerInvariant(t *testing.T, outputs []SplitOutput, payerID int64, total float64) {
	t.Helper()
	paying := 0
	for _, o := range outputs {
		if o.AmountPaid != 0 {
			paying++
			assert.Equal(t, payerID, o.UserID)
			assert.InDelta(t, total, o.AmountPaid, 1e-9)
		}
	}
	assert.Equal(t, 1, paying)
}

func sumOwed(outputs []SplitOutput) float64 {
	var sum float64
	for _, o := range outputs {
		sum += o.AmountOwed
	}
	return sum
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	for _, st := range []SplitType{SplitTypeEqual, SplitTypeEquity, SplitTypeExact, SplitTypePercentage, SplitTypeShares} {
		strategy, err := f.Create(st)
		require.NoError(t, err)
		assert.Equal(t, st, strategy.Type())
	}

	_, err := f.CreateFromString("FIBONACCI")
	assert.ErrorIs(t, err, ErrUnknownSplitType)
}

func TestEqualSplit(t *testing.T) {
	s := &EqualStrategy{}

	t.Run("three way split of 10.00", func(t *testing.T) {
		outputs, err := s.Calculate(10.00, 1, []SplitInput{{UserID: 1}, {UserID: 2}, {UserID: 3}})
		require.NoError(t, err)
		require.Len(t, outputs, 3)

		// Each share is rounded independently; the sum may miss the total
		// by up to one cent here.
		assert.InDelta(t, 10.00, sumOwed(outputs), 0.01)
		for _, o := range outputs {
			assert.InDelta(t, 3.33, o.AmountOwed, 0.011)
		}
		// No share differs from another by more than one cent.
		for _, a := range outputs {
			for _, b := range outputs {
				assert.LessOrEqual(t, math.Abs(a.AmountOwed-b.AmountOwed), 0.01)
			}
		}
		assertPayerInvariant(t, outputs, 1, 10.00)
	})

	t.Run("payer alone owes the full amount", func(t *testing.T) {
		outputs, err := s.Calculate(7.50, 9, []SplitInput{{UserID: 9}})
		require.NoError(t, err)
		require.Len(t, outputs, 1)
		assert.Equal(t, 7.50, outputs[0].AmountOwed)
		assert.Equal(t, 7.50, outputs[0].AmountPaid)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := s.Calculate(0, 1, []SplitInput{{UserID: 1}})
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})

	t.Run("rejects empty participants", func(t *testing.T) {
		_, err := s.Calculate(10, 1, nil)
		assert.ErrorIs(t, err, ErrNoParticipants)
	})

	t.Run("rejects payer outside participants", func(t *testing.T) {
		_, err := s.Calculate(10, 99, []SplitInput{{UserID: 1}, {UserID: 2}})
		assert.ErrorIs(t, err, ErrPayerNotParticipant)
	})
}

func TestEquitySplit(t *testing.T) {
	s := &EquityStrategy{}

	t.Run("weights 1 and 3 over 8.00", func(t *testing.T) {
		outputs, err := s.Calculate(8.00, 1, []SplitInput{
			{UserID: 1, Weight: fp(1)},
			{UserID: 2, Weight: fp(3)},
		})
		require.NoError(t, err)
		require.Len(t, outputs, 2)
		assert.InDelta(t, 2.00, outputs[0].AmountOwed, 1e-9)
		assert.InDelta(t, 6.00, outputs[1].AmountOwed, 1e-9)
		assertPayerInvariant(t, outputs, 1, 8.00)
	})

	t.Run("missing and zero weights fall back to 1", func(t *testing.T) {
		outputs, err := s.Calculate(9.00, 1, []SplitInput{
			{UserID: 1},                  // no weight
			{UserID: 2, Weight: fp(0)},   // zero weight
			{UserID: 3, Weight: fp(1)},
		})
		require.NoError(t, err)
		for _, o := range outputs {
			assert.InDelta(t, 3.00, o.AmountOwed, 1e-9)
		}
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := s.Calculate(9.00, 1, []SplitInput{{UserID: 1, Weight: fp(-1)}})
		assert.ErrorIs(t, err, ErrNegativeWeight)
	})
}

func TestExactSplit(t *testing.T) {
	s := &ExactStrategy{}

	t.Run("passes amounts through", func(t *testing.T) {
		outputs, err := s.Calculate(10.00, 1, []SplitInput{
			{UserID: 1, Amount: fp(2.50)},
			{UserID: 2, Amount: fp(7.50)},
		})
		require.NoError(t, err)
		assert.Equal(t, 2.50, outputs[0].AmountOwed)
		assert.Equal(t, 7.50, outputs[1].AmountOwed)
		assertPayerInvariant(t, outputs, 1, 10.00)
	})

	t.Run("does not reject amounts that miss the total", func(t *testing.T) {
		// Summing to the total is the caller's responsibility.
		outputs, err := s.Calculate(10.00, 1, []SplitInput{
			{UserID: 1, Amount: fp(1.00)},
			{UserID: 2, Amount: fp(2.00)},
		})
		require.NoError(t, err)
		assert.InDelta(t, 3.00, sumOwed(outputs), 1e-9)
	})

	t.Run("rejects missing amount", func(t *testing.T) {
		_, err := s.Calculate(10.00, 1, []SplitInput{{UserID: 1, Amount: fp(10)}, {UserID: 2}})
		assert.ErrorIs(t, err, ErrMissingExactAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := s.Calculate(10.00, 1, []SplitInput{{UserID: 1, Amount: fp(-2)}})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestPercentageSplit(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("splits by percentage", func(t *testing.T) {
		outputs, err := s.Calculate(200.00, 2, []SplitInput{
			{UserID: 1, Percentage: fp(25)},
			{UserID: 2, Percentage: fp(75)},
		})
		require.NoError(t, err)
		assert.InDelta(t, 50.00, outputs[0].AmountOwed, 1e-9)
		assert.InDelta(t, 150.00, outputs[1].AmountOwed, 1e-9)
		assertPayerInvariant(t, outputs, 2, 200.00)
	})

	t.Run("does not require percentages to sum to 100", func(t *testing.T) {
		outputs, err := s.Calculate(100.00, 1, []SplitInput{
			{UserID: 1, Percentage: fp(30)},
			{UserID: 2, Percentage: fp(30)},
		})
		require.NoError(t, err)
		assert.InDelta(t, 60.00, sumOwed(outputs), 1e-9)
	})

	t.Run("rejects percentage out of range", func(t *testing.T) {
		_, err := s.Calculate(100.00, 1, []SplitInput{{UserID: 1, Percentage: fp(101)}})
		assert.ErrorIs(t, err, ErrPercentageOutOfRange)

		_, err = s.Calculate(100.00, 1, []SplitInput{{UserID: 1, Percentage: fp(-1)}})
		assert.ErrorIs(t, err, ErrPercentageOutOfRange)
	})

	t.Run("rejects missing percentage", func(t *testing.T) {
		_, err := s.Calculate(100.00, 1, []SplitInput{{UserID: 1}})
		assert.ErrorIs(t, err, ErrMissingPercentage)
	})
}

func TestSharesSplit(t *testing.T) {
	s := &SharesStrategy{}

	t.Run("shares 1 and 2 over 9.00", func(t *testing.T) {
		outputs, err := s.Calculate(9.00, 1, []SplitInput{
			{UserID: 1, Shares: ip(1)},
			{UserID: 2, Shares: ip(2)},
		})
		require.NoError(t, err)
		assert.InDelta(t, 3.00, outputs[0].AmountOwed, 1e-9)
		assert.InDelta(t, 6.00, outputs[1].AmountOwed, 1e-9)
		assertPayerInvariant(t, outputs, 1, 9.00)
	})

	t.Run("missing share count defaults to one", func(t *testing.T) {
		outputs, err := s.Calculate(12.00, 1, []SplitInput{
			{UserID: 1, Shares: ip(2)},
			{UserID: 2},
		})
		require.NoError(t, err)
		assert.InDelta(t, 8.00, outputs[0].AmountOwed, 1e-9)
		assert.InDelta(t, 4.00, outputs[1].AmountOwed, 1e-9)
	})

	t.Run("rejects negative shares", func(t *testing.T) {
		_, err := s.Calculate(12.00, 1, []SplitInput{{UserID: 1, Shares: ip(-1)}})
		assert.ErrorIs(t, err, ErrNegativeShares)
	})
}

// Splits are pure: calling twice with the same inputs yields identical
// results.
func TestCalculateDeterministic(t *testing.T) {
	f := NewFactory()
	inputs := []SplitInput{
		{UserID: 1, Weight: fp(2), Percentage: fp(40), Amount: fp(4), Shares: ip(2)},
		{UserID: 2, Weight: fp(3), Percentage: fp(60), Amount: fp(6), Shares: ip(3)},
	}
	for _, st := range []SplitType{SplitTypeEqual, SplitTypeEquity, SplitTypeExact, SplitTypePercentage, SplitTypeShares} {
		strategy, err := f.Create(st)
		require.NoError(t, err)
		a, err := strategy.Calculate(10.00, 1, inputs)
		require.NoError(t, err)
		b, err := strategy.Calculate(10.00, 1, inputs)
		require.NoError(t, err)
		assert.Equal(t, a, b, "strategy %s not deterministic", st)
	}
}
