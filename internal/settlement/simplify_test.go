package settlement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyup/divvy/pkg/money"
)

// applyPayments executes suggested payments against a copy of the snapshot
// and returns the resulting balances.
func applyPayments(balances map[int64]float64, payments []SimplifiedDebt) map[int64]float64 {
	result := make(map[int64]float64, len(balances))
	for id, b := range balances {
		result[id] = b
	}
	for _, p := range payments {
		result[p.FromUserID] = money.Round(result[p.FromUserID] + p.Amount)
		result[p.ToUserID] = money.Round(result[p.ToUserID] - p.Amount)
	}
	return result
}

func TestSimplifyDebts(t *testing.T) {
	t.Run("one creditor two debtors", func(t *testing.T) {
		balances := map[int64]float64{1: 30, 2: -10, 3: -20}

		payments := SimplifyDebts(balances)
		require.Len(t, payments, 2)

		// Largest debtor matches first.
		assert.Equal(t, SimplifiedDebt{FromUserID: 3, ToUserID: 1, Amount: 20}, payments[0])
		assert.Equal(t, SimplifiedDebt{FromUserID: 2, ToUserID: 1, Amount: 10}, payments[1])

		for _, b := range applyPayments(balances, payments) {
			assert.True(t, money.IsZero(b), "balance %v not settled", b)
		}
	})

	t.Run("already settled group yields no payments", func(t *testing.T) {
		assert.Empty(t, SimplifyDebts(map[int64]float64{1: 0, 2: 0}))
		assert.Empty(t, SimplifyDebts(nil))
	})

	t.Run("sub-cent balances are ignored", func(t *testing.T) {
		assert.Empty(t, SimplifyDebts(map[int64]float64{1: 0.004, 2: -0.004}))
	})

	t.Run("chain of balances", func(t *testing.T) {
		balances := map[int64]float64{1: 25.50, 2: 4.50, 3: -12.00, 4: -18.00}

		payments := SimplifyDebts(balances)
		assert.LessOrEqual(t, len(payments), 3) // creditors + debtors - 1

		for _, p := range payments {
			assert.Greater(t, p.Amount, 0.0)
			assert.Equal(t, p.Amount, money.Round(p.Amount))
		}
		for _, b := range applyPayments(balances, payments) {
			assert.True(t, money.IsZero(b))
		}
	})

	t.Run("deterministic for equal amounts", func(t *testing.T) {
		balances := map[int64]float64{5: 10, 9: 10, 2: -10, 7: -10}
		first := SimplifyDebts(balances)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, SimplifyDebts(balances))
		}
	})
}

// Random zero-sum snapshots must always settle to zero with at most
// creditors+debtors-1 payments.
func TestSimplifyDebtsRandomSnapshots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.Intn(8)
		balances := make(map[int64]float64, n)
		var sum float64
		for id := int64(1); id < int64(n); id++ {
			amount := money.Round(rng.Float64()*200 - 100)
			balances[id] = amount
			sum = money.Round(sum + amount)
		}
		balances[int64(n)] = -sum

		payments := SimplifyDebts(balances)

		var creditors, debtors int
		for _, b := range balances {
			if b > money.Epsilon {
				creditors++
			} else if b < -money.Epsilon {
				debtors++
			}
		}
		if creditors+debtors > 0 {
			assert.LessOrEqual(t, len(payments), creditors+debtors-1)
		}

		for id, b := range applyPayments(balances, payments) {
			assert.True(t, money.IsZero(b), "trial %d: user %d left with %v", trial, id, b)
		}
	}
}
