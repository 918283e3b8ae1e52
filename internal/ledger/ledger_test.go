package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/pkg/money"
)

// entriesFor runs a split strategy and converts its outputs to ledger
// entries, the same mapping the expense coordinator performs.
func entriesFor(t *testing.T, strategy split.Strategy, amount float64, payerID int64, participants []split.SplitInput) []Entry {
	t.Helper()
	outputs, err := strategy.Calculate(amount, payerID, participants)
	require.NoError(t, err)
	entries := make([]Entry, len(outputs))
	for i, o := range outputs {
		entries[i] = Entry{UserID: o.UserID, AmountOwed: o.AmountOwed, AmountPaid: o.AmountPaid}
	}
	return entries
}

func applyCreate(balances map[int64]float64, entries []Entry) {
	for _, e := range entries {
		balances[e.UserID] = money.Round(balances[e.UserID] + CreateDelta(e))
	}
}

func applyDelete(balances map[int64]float64, entries []Entry) {
	for _, e := range entries {
		balances[e.UserID] = money.Round(balances[e.UserID] + DeleteDelta(e))
	}
}

func sumBalances(balances map[int64]float64) float64 {
	var sum float64
	for _, b := range balances {
		sum += b
	}
	return sum
}

func TestCreateDeltaSigns(t *testing.T) {
	// Payer paid 30 and owes their 10 share: net +20.
	assert.InDelta(t, 20.00, CreateDelta(Entry{UserID: 1, AmountOwed: 10, AmountPaid: 30}), 1e-9)
	// A plain participant owes 10: net -10.
	assert.InDelta(t, -10.00, CreateDelta(Entry{UserID: 2, AmountOwed: 10, AmountPaid: 0}), 1e-9)
}

func TestDeleteDeltaIsExactInverse(t *testing.T) {
	entries := []Entry{
		{UserID: 1, AmountOwed: 3.33, AmountPaid: 10.00},
		{UserID: 2, AmountOwed: 3.33},
		{UserID: 3, AmountOwed: 3.33},
	}
	for _, e := range entries {
		assert.InDelta(t, 0, CreateDelta(e)+DeleteDelta(e), 1e-9)
	}
}

// Creating and then deleting an expense must restore every balance to what
// it was before, regardless of what happened in between.
func TestCreateThenDeleteRestoresBalances(t *testing.T) {
	balances := map[int64]float64{1: 12.50, 2: -7.25, 3: -5.25}
	before := map[int64]float64{}
	for id, b := range balances {
		before[id] = b
	}

	entries := entriesFor(t, &split.EqualStrategy{}, 10.00, 1, []split.SplitInput{
		{UserID: 1}, {UserID: 2}, {UserID: 3},
	})

	applyCreate(balances, entries)
	applyDelete(balances, entries)

	assert.Equal(t, before, balances)
}

// Conservation: the deltas of a single expense sum to (roughly) zero, so the
// group-wide balance sum stays pinned at zero across any sequence of
// creations, deletions and settlements. The tolerance per expense is the
// accepted rounding drift of the split calculator.
func TestConservationOverOperationSequence(t *testing.T) {
	balances := map[int64]float64{1: 0, 2: 0, 3: 0, 4: 0}
	var ops int

	type expenseOp struct {
		strategy     split.Strategy
		amount       float64
		payerID      int64
		participants []split.SplitInput
	}

	two := 2
	w1, w3 := 1.0, 3.0
	expenses := []expenseOp{
		{&split.EqualStrategy{}, 30.00, 1, []split.SplitInput{{UserID: 1}, {UserID: 2}, {UserID: 3}}},
		{&split.EqualStrategy{}, 10.00, 2, []split.SplitInput{{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4}}},
		{&split.EquityStrategy{}, 8.00, 3, []split.SplitInput{{UserID: 3, Weight: &w1}, {UserID: 4, Weight: &w3}}},
		{&split.SharesStrategy{}, 9.00, 4, []split.SplitInput{{UserID: 1, Shares: &two}, {UserID: 4}}},
	}

	var applied [][]Entry
	for _, e := range expenses {
		entries := entriesFor(t, e.strategy, e.amount, e.payerID, e.participants)
		applyCreate(balances, entries)
		applied = append(applied, entries)
		ops++
		assert.InDelta(t, 0, sumBalances(balances), float64(ops)*0.02, "after expense create")
	}

	// Settlement: 2 pays 1 five dollars.
	balances[2] = money.Round(balances[2] + 5.00)
	balances[1] = money.Round(balances[1] - 5.00)
	assert.InDelta(t, 0, sumBalances(balances), float64(ops)*0.02, "after settlement")

	// Delete the first expense; conservation must survive the reversal.
	applyDelete(balances, applied[0])
	assert.InDelta(t, 0, sumBalances(balances), float64(ops)*0.02, "after expense delete")
}
