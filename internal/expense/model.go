package expense

import (
	"time"

	"github.com/divvyup/divvy/internal/expense/split"
)

// Expense represents one recorded real-world payment event. Deleted expenses
// stay in storage with the flag set; deletion reverses their balance effect
// exactly once and never rewrites history.
type Expense struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	PayerID      int64     `json:"payer_id"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	SplitType    string    `json:"split_type"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Obligation is one participant's share of one expense: how much of it they
// owe and how much of it they personally paid. Exactly one obligation per
// expense carries the full paid amount and it belongs to the payer. The
// stored values are what deletion reverses; they are never recomputed.
type Obligation struct {
	ID         int64   `json:"id"`
	ExpenseID  int64   `json:"expense_id"`
	UserID     int64   `json:"user_id"`
	AmountOwed float64 `json:"amount_owed"`
	AmountPaid float64 `json:"amount_paid"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithObligations combines an expense with its obligations
type ExpenseWithObligations struct {
	Expense     *Expense
	Obligations []*Obligation
}

// Participant is one entry in a create request, carrying the per-strategy
// values for that user.
type Participant struct {
	UserID     int64    `json:"user_id"`
	Weight     *float64 `json:"weight,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Shares     *int     `json:"shares,omitempty"`
}

// ToSplitInput converts to the split package's input type
func (p *Participant) ToSplitInput() split.SplitInput {
	return split.SplitInput{
		UserID:     p.UserID,
		Weight:     p.Weight,
		Amount:     p.Amount,
		Percentage: p.Percentage,
		Shares:     p.Shares,
	}
}
