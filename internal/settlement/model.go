package settlement

import "time"

// SettlementStatus represents the status of a settlement
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusConfirmed SettlementStatus = "CONFIRMED"
	SettlementStatusRejected  SettlementStatus = "REJECTED"
)

// Settlement represents a direct payment from one member to another,
// recorded to cancel part of a balance. Its balance effect is applied when
// the settlement is recorded and reversed only if the receiver rejects it.
type Settlement struct {
	ID           int64            `json:"id"`
	GroupID      int64            `json:"group_id"`
	PayerID      int64            `json:"payer_id"`    // who sends the money
	ReceiverID   int64            `json:"receiver_id"` // who receives it
	Amount       float64          `json:"amount"`
	CurrencyCode string           `json:"currency_code"`
	Status       SettlementStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Populated via JOIN
	PayerUsername    string `json:"payer_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}
