package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Service writes and reads activity records. The Notify methods are fired
// after a core operation has committed; they log failures instead of
// returning them so a broken notification row can never fail or roll back
// the operation that triggered it.
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// NotifyExpenseAdded tells each participant they owe a share of a new expense
func (s *Service) NotifyExpenseAdded(ctx context.Context, expenseID, payerID int64, description string, participantIDs []int64) {
	message := fmt.Sprintf("You were added to expense %q", description)
	for _, recipientID := range participantIDs {
		if _, err := s.repo.Create(ctx, recipientID, message, EntityTypeExpense, expenseID); err != nil {
			slog.Warn("failed to write notification", "recipient_id", recipientID, "expense_id", expenseID, "err", err)
		}
	}
}

// NotifyExpenseRemoved tells each participant an expense was deleted and
// their balance restored
func (s *Service) NotifyExpenseRemoved(ctx context.Context, expenseID, payerID int64, description string, participantIDs []int64) {
	message := fmt.Sprintf("Expense %q was deleted and balances restored", description)
	for _, recipientID := range participantIDs {
		if _, err := s.repo.Create(ctx, recipientID, message, EntityTypeExpense, expenseID); err != nil {
			slog.Warn("failed to write notification", "recipient_id", recipientID, "expense_id", expenseID, "err", err)
		}
	}
}

// NotifySettlementRecorded tells the receiver a payment was recorded to them
func (s *Service) NotifySettlementRecorded(ctx context.Context, settlementID, payerID, receiverID int64, amount float64) {
	message := fmt.Sprintf("A payment of %.2f was recorded to you", amount)
	if _, err := s.repo.Create(ctx, receiverID, message, EntityTypeSettlement, settlementID); err != nil {
		slog.Warn("failed to write notification", "recipient_id", receiverID, "settlement_id", settlementID, "err", err)
	}
}

// NotifySettlementConfirmed tells the payer their payment was confirmed
func (s *Service) NotifySettlementConfirmed(ctx context.Context, settlementID, payerID, receiverID int64) {
	if _, err := s.repo.Create(ctx, payerID, "Your payment was confirmed", EntityTypeSettlement, settlementID); err != nil {
		slog.Warn("failed to write notification", "recipient_id", payerID, "settlement_id", settlementID, "err", err)
	}
}

// ListByRecipient retrieves a user's notifications
func (s *Service) ListByRecipient(ctx context.Context, recipientID int64, page, perPage int) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipient(ctx, recipientID, perPage, offset)
}

// MarkAsRead flags a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, recipientID int64) error {
	if err := s.repo.MarkAsRead(ctx, id, recipientID); err != nil {
		return ErrNotificationNotFound
	}
	return nil
}
