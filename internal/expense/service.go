package expense

import (
	"context"
	"errors"
	"log/slog"

	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/notification"
	"github.com/divvyup/divvy/pkg/metrics"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotPayer        = errors.New("only the payer can delete an expense")
)

// Service handles expense business logic
type Service struct {
	repo          *Repository
	splitFactory  *split.Factory
	groupRepo     *group.Repository
	notifications *notification.Service
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, splitFactory *split.Factory, groupRepo *group.Repository, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		splitFactory:  splitFactory,
		groupRepo:     groupRepo,
		notifications: notifications,
	}
}

// CreateExpense calculates splits with the requested strategy and commits
// the expense, obligations, balance deltas and group aggregate as one
// atomic write.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithObligations, error) {
	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	inputs := make([]split.SplitInput, len(req.Participants))
	for i, p := range req.Participants {
		inputs[i] = p.ToSplitInput()
	}

	// EQUITY splits read weights off the membership rows unless the request
	// carries explicit ones.
	if strategy.Type() == split.SplitTypeEquity {
		if err := s.fillMemberWeights(ctx, req.GroupID, inputs); err != nil {
			return nil, err
		}
	}

	outputs, err := strategy.Calculate(req.Amount, payerID, inputs)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.CreateExpense(ctx, payerID, req, outputs)
	if err != nil {
		metrics.TxFailures.WithLabelValues("expense_create").Inc()
		return nil, err
	}

	metrics.ExpensesCreated.WithLabelValues(req.SplitType).Inc()
	slog.Info("expense created",
		"expense_id", result.Expense.ID,
		"group_id", result.Expense.GroupID,
		"payer_id", payerID,
		"amount", result.Expense.Amount,
		"split_type", req.SplitType,
	)

	// Activity records are a post-commit side effect; a failure here must
	// not fail the already committed expense.
	participantIDs := make([]int64, 0, len(result.Obligations))
	for _, o := range result.Obligations {
		if o.UserID != payerID {
			participantIDs = append(participantIDs, o.UserID)
		}
	}
	s.notifications.NotifyExpenseAdded(ctx, result.Expense.ID, payerID, result.Expense.Description, participantIDs)

	return result, nil
}

// GetExpenseByID retrieves an expense with its obligations
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithObligations, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	obligations, err := s.repo.GetObligationsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithObligations{Expense: expense, Obligations: obligations}, nil
}

// ListByGroupID retrieves non-deleted expenses for a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// DeleteExpense soft-deletes an expense and reverses its balance effect.
// Only the payer may delete, and only once.
func (s *Service) DeleteExpense(ctx context.Context, id, userID int64) error {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return ErrNotPayer
	}

	obligations, err := s.repo.GetObligationsByExpenseID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		if !errors.Is(err, ErrAlreadyDeleted) {
			metrics.TxFailures.WithLabelValues("expense_delete").Inc()
		}
		return err
	}

	metrics.ExpensesDeleted.Inc()
	slog.Info("expense deleted", "expense_id", id, "group_id", expense.GroupID, "user_id", userID)

	participantIDs := make([]int64, 0, len(obligations))
	for _, o := range obligations {
		if o.UserID != userID {
			participantIDs = append(participantIDs, o.UserID)
		}
	}
	s.notifications.NotifyExpenseRemoved(ctx, expense.ID, userID, expense.Description, participantIDs)

	return nil
}

// fillMemberWeights populates missing equity weights from the group's
// membership rows. Members without a stored weight keep a nil weight and
// fall back to 1 inside the calculator.
func (s *Service) fillMemberWeights(ctx context.Context, groupID int64, inputs []split.SplitInput) error {
	weights, err := s.groupRepo.GetMemberWeights(ctx, groupID)
	if err != nil {
		return err
	}
	for i := range inputs {
		if inputs[i].Weight == nil {
			if w, ok := weights[inputs[i].UserID]; ok {
				weight := w
				inputs[i].Weight = &weight
			}
		}
	}
	return nil
}
