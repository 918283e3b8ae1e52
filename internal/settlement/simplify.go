package settlement

import (
	"math"
	"sort"

	"github.com/divvyup/divvy/pkg/money"
)

// SimplifiedDebt is one suggested payment: From pays To the given amount.
type SimplifiedDebt struct {
	FromUserID int64   `json:"from_user_id"`
	ToUserID   int64   `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

type party struct {
	userID int64
	amount float64
}

// SimplifyDebts turns a balance snapshot into a short list of point-to-point
// payments that would bring every balance to zero.
//
// The matching is greedy: creditors and debtors are sorted by amount,
// largest first, and walked with two cursors, always paying the biggest
// outstanding debt into the biggest outstanding credit. The result has at
// most creditors+debtors-1 payments. It is a deterministic approximation,
// not the provably minimal transaction count.
//
// Pure function over the snapshot: no storage access, safe to call
// speculatively.
func SimplifyDebts(balances map[int64]float64) []SimplifiedDebt {
	var creditors, debtors []party
	for userID, balance := range balances {
		switch {
		case balance > money.Epsilon:
			creditors = append(creditors, party{userID, balance})
		case balance < -money.Epsilon:
			debtors = append(debtors, party{userID, -balance})
		}
	}

	// Largest amounts first; ties broken by user id so the output is stable
	// across calls on the same snapshot.
	byAmountDesc := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if parties[i].amount != parties[j].amount {
				return parties[i].amount > parties[j].amount
			}
			return parties[i].userID < parties[j].userID
		}
	}
	sort.Slice(creditors, byAmountDesc(creditors))
	sort.Slice(debtors, byAmountDesc(debtors))

	var payments []SimplifiedDebt
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := money.Round(math.Min(creditors[i].amount, debtors[j].amount))
		if amount > 0 {
			payments = append(payments, SimplifiedDebt{
				FromUserID: debtors[j].userID,
				ToUserID:   creditors[i].userID,
				Amount:     amount,
			})
		}

		creditors[i].amount = money.Round(creditors[i].amount - amount)
		debtors[j].amount = money.Round(debtors[j].amount - amount)

		if creditors[i].amount < money.Epsilon {
			i++
		}
		if debtors[j].amount < money.Epsilon {
			j++
		}
	}

	return payments
}
