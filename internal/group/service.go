package group

import (
	"context"
	"errors"
	"log/slog"

	"github.com/divvyup/divvy/pkg/money"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrMemberHasBalance    = errors.New("member cannot leave with an outstanding balance")
)

// Service handles group business logic
type Service struct {
	repo *Repository
}

// NewService creates a new group service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new group and enrolls the creator as its first member
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, &AddMemberRequest{UserID: creatorID}); err != nil {
		return nil, err
	}

	slog.Info("group created", "group_id", group.ID, "creator_id", creatorID)
	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*Member, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// AddMember adds a user to a group with an optional equity weight
func (s *Service) AddMember(ctx context.Context, groupID int64, req *AddMemberRequest) (*Member, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, groupID, req)
}

// UpdateMemberWeight changes a member's equity weight. Existing obligations
// are untouched; the new weight only affects splits computed after the
// change.
func (s *Service) UpdateMemberWeight(ctx context.Context, groupID, userID int64, req *UpdateMemberRequest) (*Member, error) {
	member, err := s.repo.UpdateMemberWeight(ctx, groupID, userID, req.Weight)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RemoveMember deactivates a member. A member can only leave once their
// balance is settled; deactivating someone who still owes or is owed money
// would break the group's zero-sum invariant.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || !member.IsActive {
		return ErrMemberNotFound
	}

	if !money.IsZero(member.Balance) {
		return ErrMemberHasBalance
	}

	return s.repo.DeactivateMember(ctx, groupID, userID)
}

// GetBalances returns the balance snapshot of every active member
func (s *Service) GetBalances(ctx context.Context, groupID int64) (map[int64]float64, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetBalances(ctx, groupID)
}
