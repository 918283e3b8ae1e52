package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Description  *string `json:"description,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty" validate:"omitempty,len=3"`
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UserID int64    `json:"user_id" validate:"required"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
}

// UpdateMemberRequest represents the request to update a member's split weight
type UpdateMemberRequest struct {
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	CurrencyCode  string            `json:"currency_code"`
	TotalExpenses float64           `json:"total_expenses"`
	CreatedAt     string            `json:"created_at"`
	Members       []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Balance  float64  `json:"balance"`
	Weight   *float64 `json:"weight,omitempty"`
	IsActive bool     `json:"is_active"`
	JoinedAt string   `json:"joined_at"`
}

// BalanceResponse is one member's entry in a group balance snapshot
type BalanceResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		CurrencyCode:  g.CurrencyCode,
		TotalExpenses: g.TotalExpenses,
		CreatedAt:     g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		Balance:  m.Balance,
		Weight:   m.Weight,
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
