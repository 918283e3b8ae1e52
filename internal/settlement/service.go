package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/notification"
	"github.com/divvyup/divvy/pkg/metrics"
	"github.com/divvyup/divvy/pkg/money"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrInvalidAmount      = errors.New("settlement amount must be positive")
	ErrCannotSettleSelf   = errors.New("cannot create settlement with yourself")
	ErrNotReceiver        = errors.New("only the receiver can confirm or reject")
)

// Service handles settlement business logic
type Service struct {
	repo          *Repository
	groupSvc      *group.Service
	notifications *notification.Service
}

// NewService creates a new settlement service
func NewService(repo *Repository, groupSvc *group.Service, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		groupSvc:      groupSvc,
		notifications: notifications,
	}
}

// Create records a payment from the initiator to another member. The
// settlement row and its balance effect commit together; an unknown or
// inactive member aborts the whole write.
func (s *Service) Create(ctx context.Context, payerID int64, req *CreateSettlementRequest) (*Settlement, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if payerID == req.ToUserID {
		return nil, ErrCannotSettleSelf
	}

	grp, err := s.groupSvc.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	settlement, err := s.repo.Create(ctx, req.GroupID, payerID, req.ToUserID, money.Round(req.Amount), grp.CurrencyCode)
	if err != nil {
		metrics.TxFailures.WithLabelValues("settlement_create").Inc()
		return nil, err
	}

	metrics.SettlementsCreated.Inc()
	slog.Info("settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"payer_id", payerID,
		"receiver_id", req.ToUserID,
		"amount", settlement.Amount,
	)

	s.notifications.NotifySettlementRecorded(ctx, settlement.ID, payerID, req.ToUserID, settlement.Amount)

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByGroupID retrieves the settlements of a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// Confirm lets the receiver acknowledge the payment arrived. The balance
// effect was applied at creation; this only finalizes the record.
func (s *Service) Confirm(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	settlement, err = s.repo.Confirm(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	metrics.SettlementsConfirmed.Inc()
	slog.Info("settlement confirmed", "settlement_id", settlementID, "receiver_id", userID)

	s.notifications.NotifySettlementConfirmed(ctx, settlement.ID, settlement.PayerID, settlement.ReceiverID)

	return settlement, nil
}

// Reject lets the receiver deny a pending settlement. The recorded balance
// effect is reversed in the same transaction as the status change.
func (s *Service) Reject(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	settlement, err = s.repo.Reject(ctx, settlementID)
	if err != nil {
		if !errors.Is(err, ErrStatusConflict) {
			metrics.TxFailures.WithLabelValues("settlement_reject").Inc()
		}
		return nil, err
	}

	slog.Info("settlement rejected", "settlement_id", settlementID, "receiver_id", userID)

	return settlement, nil
}

// SettleUp reads the group's balance snapshot and suggests the payments
// that would clear it.
func (s *Service) SettleUp(ctx context.Context, groupID int64) ([]SimplifiedDebt, error) {
	balances, err := s.groupSvc.GetBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return SimplifyDebts(balances), nil
}
