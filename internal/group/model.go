package group

import "time"

// Group represents a group of people sharing expenses. TotalExpenses is a
// running aggregate maintained by the expense coordinator in the same
// transaction as the expenses themselves.
type Group struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	CurrencyCode  string    `json:"currency_code"`
	TotalExpenses float64   `json:"total_expenses"`
	CreatedAt     time.Time `json:"created_at"`
}

// Member represents a user's membership in a group. Balance is the member's
// signed net position: positive means the group owes them money, negative
// means they owe the group. It is only ever mutated through the ledger's
// atomic increments. Weight, when set, drives EQUITY splits.
type Member struct {
	ID       int64     `json:"id"`
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	Balance  float64   `json:"balance"`
	Weight   *float64  `json:"weight,omitempty"`
	IsActive bool      `json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
