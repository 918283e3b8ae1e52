package expense

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID      int64          `json:"group_id" validate:"required"`
	Description  string         `json:"description" validate:"required,min=1,max=255"`
	Amount       float64        `json:"amount" validate:"required,gt=0"`
	CurrencyCode string         `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	SplitType    string         `json:"split_type" validate:"required,oneof=EQUAL EQUITY EXACT PERCENTAGE SHARES"`
	Participants []*Participant `json:"participants" validate:"required,min=1"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64                 `json:"id"`
	GroupID       int64                 `json:"group_id"`
	PayerID       int64                 `json:"payer_id"`
	PayerUsername string                `json:"payer_username,omitempty"`
	Description   string                `json:"description"`
	Amount        float64               `json:"amount"`
	CurrencyCode  string                `json:"currency_code"`
	SplitType     string                `json:"split_type"`
	Deleted       bool                  `json:"deleted"`
	CreatedAt     string                `json:"created_at"`
	Obligations   []*ObligationResponse `json:"obligations,omitempty"`
}

// ObligationResponse represents the response for an obligation
type ObligationResponse struct {
	ID         int64   `json:"id"`
	ExpenseID  int64   `json:"expense_id"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username,omitempty"`
	AmountOwed float64 `json:"amount_owed"`
	AmountPaid float64 `json:"amount_paid"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		Amount:        e.Amount,
		CurrencyCode:  e.CurrencyCode,
		SplitType:     e.SplitType,
		Deleted:       e.Deleted,
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an Obligation model to an ObligationResponse DTO
func (o *Obligation) ToResponse() *ObligationResponse {
	return &ObligationResponse{
		ID:         o.ID,
		ExpenseID:  o.ExpenseID,
		UserID:     o.UserID,
		Username:   o.Username,
		AmountOwed: o.AmountOwed,
		AmountPaid: o.AmountPaid,
	}
}
