package notification

import "time"

// Notification is one activity record shown to a user. Rows are written
// best-effort after a core operation commits; they are never part of the
// operation's transaction.
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // "EXPENSE" or "SETTLEMENT"
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Related entity types
const (
	EntityTypeExpense    = "EXPENSE"
	EntityTypeSettlement = "SETTLEMENT"
)
