package settlement

// CreateSettlementRequest represents the request to record a settlement.
// The authenticated user is the payer.
type CreateSettlementRequest struct {
	GroupID    int64   `json:"group_id" validate:"required"`
	ToUserID   int64   `json:"to_user_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID               int64            `json:"id"`
	GroupID          int64            `json:"group_id"`
	PayerID          int64            `json:"payer_id"`
	PayerUsername    string           `json:"payer_username,omitempty"`
	ReceiverID       int64            `json:"receiver_id"`
	ReceiverUsername string           `json:"receiver_username,omitempty"`
	Amount           float64          `json:"amount"`
	CurrencyCode     string           `json:"currency_code"`
	Status           SettlementStatus `json:"status"`
	CreatedAt        string           `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:               s.ID,
		GroupID:          s.GroupID,
		PayerID:          s.PayerID,
		PayerUsername:    s.PayerUsername,
		ReceiverID:       s.ReceiverID,
		ReceiverUsername: s.ReceiverUsername,
		Amount:           s.Amount,
		CurrencyCode:     s.CurrencyCode,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
