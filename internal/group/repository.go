package group

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles group and membership data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	query := `
		INSERT INTO groups (name, description, currency_code)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, currency_code, total_expenses, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, currency).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CurrencyCode,
		&group.TotalExpenses,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, currency_code, total_expenses, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CurrencyCode,
		&group.TotalExpenses,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves all groups a user is an active member of
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(DISTINCT g.id)
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1 AND gm.is_active = TRUE
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.currency_code, g.total_expenses, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1 AND gm.is_active = TRUE
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Description,
			&group.CurrencyCode,
			&group.TotalExpenses,
			&group.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// AddMember inserts a new membership row with a zero starting balance
func (r *Repository) AddMember(ctx context.Context, groupID int64, req *AddMemberRequest) (*Member, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, weight)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, user_id, balance, weight, is_active, joined_at
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, groupID, req.UserID, req.Weight).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Balance,
		&member.Weight,
		&member.IsActive,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves one membership row
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*Member, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.balance, gm.weight, gm.is_active, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.user_id = $2
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Balance,
		&member.Weight,
		&member.IsActive,
		&member.JoinedAt,
		&member.Username,
		&member.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a group, active ones first
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.balance, gm.weight, gm.is_active, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.is_active DESC, gm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.Balance,
			&member.Weight,
			&member.IsActive,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// GetBalances reads the current balance of every active member. This is the
// snapshot the debt simplifier works from.
func (r *Repository) GetBalances(ctx context.Context, groupID int64) (map[int64]float64, error) {
	query := `
		SELECT user_id, balance
		FROM group_members
		WHERE group_id = $1 AND is_active = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[int64]float64)
	for rows.Next() {
		var userID int64
		var balance float64
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[userID] = balance
	}

	return balances, nil
}

// GetMemberWeights reads the split weights of the given members. Members
// without a weight are absent from the result.
func (r *Repository) GetMemberWeights(ctx context.Context, groupID int64) (map[int64]float64, error) {
	query := `
		SELECT user_id, weight
		FROM group_members
		WHERE group_id = $1 AND is_active = TRUE AND weight IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[int64]float64)
	for rows.Next() {
		var userID int64
		var weight float64
		if err := rows.Scan(&userID, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight: %w", err)
		}
		weights[userID] = weight
	}

	return weights, nil
}

// UpdateMemberWeight sets a member's split weight
func (r *Repository) UpdateMemberWeight(ctx context.Context, groupID, userID int64, weight *float64) (*Member, error) {
	query := `
		UPDATE group_members
		SET weight = $3
		WHERE group_id = $1 AND user_id = $2
		RETURNING id, group_id, user_id, balance, weight, is_active, joined_at
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, weight).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Balance,
		&member.Weight,
		&member.IsActive,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member weight: %w", err)
	}

	return member, nil
}

// DeactivateMember soft-removes a member. Membership rows are never deleted;
// the history of a member's obligations must stay resolvable.
func (r *Repository) DeactivateMember(ctx context.Context, groupID, userID int64) error {
	query := `
		UPDATE group_members
		SET is_active = FALSE
		WHERE group_id = $1 AND user_id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}
