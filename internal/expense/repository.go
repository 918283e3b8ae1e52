package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/ledger"
)

// ErrAlreadyDeleted is returned when a delete targets an expense whose
// effect has already been reversed.
var ErrAlreadyDeleted = errors.New("expense already deleted")

// Repository persists expenses and obligations and coordinates the
// transactions that keep them consistent with member balances.
//
// Every mutation commits as one atomic unit: the expense row, its
// obligation rows, the ledger deltas and the group aggregate either all
// land or none do. There is no internal retry; a rejected commit surfaces
// to the caller with no partial state.
type Repository struct {
	db     *sql.DB
	ledger *ledger.Ledger
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB, l *ledger.Ledger) *Repository {
	return &Repository{db: db, ledger: l}
}

// CreateExpense writes the expense, its obligations, the balance deltas and
// the group total in one transaction.
func (r *Repository) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest, outputs []split.SplitOutput) (*ExpenseWithObligations, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	expenseQuery := `
		INSERT INTO expenses (group_id, payer_id, description, amount, currency_code, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, description, amount, currency_code, split_type, deleted, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, expenseQuery,
		req.GroupID,
		payerID,
		req.Description,
		req.Amount,
		currency,
		req.SplitType,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitType,
		&expense.Deleted,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	obligationQuery := `
		INSERT INTO obligations (expense_id, user_id, amount_owed, amount_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, expense_id, user_id, amount_owed, amount_paid
	`

	obligations := make([]*Obligation, len(outputs))
	entries := make([]ledger.Entry, len(outputs))
	for i, out := range outputs {
		obligation := &Obligation{}
		err := tx.QueryRowContext(ctx, obligationQuery, expense.ID, out.UserID, out.AmountOwed, out.AmountPaid).Scan(
			&obligation.ID,
			&obligation.ExpenseID,
			&obligation.UserID,
			&obligation.AmountOwed,
			&obligation.AmountPaid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create obligation: %w", err)
		}
		obligations[i] = obligation
		entries[i] = ledger.Entry{
			UserID:     out.UserID,
			AmountOwed: out.AmountOwed,
			AmountPaid: out.AmountPaid,
		}
	}

	if err := r.ledger.ApplyExpenseCreate(ctx, tx, expense.GroupID, entries); err != nil {
		return nil, err
	}

	if err := r.incrementGroupTotal(ctx, tx, expense.GroupID, expense.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseWithObligations{Expense: expense, Obligations: obligations}, nil
}

// DeleteExpense marks the expense deleted and reverses its effect using the
// stored obligations, all in one transaction. A second delete of the same
// expense finds the deleted flag already set and fails without touching any
// balance.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID int64
	var amount float64
	markQuery := `
		UPDATE expenses
		SET deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND deleted = FALSE
		RETURNING group_id, amount
	`
	if err := tx.QueryRowContext(ctx, markQuery, id).Scan(&groupID, &amount); err != nil {
		if err == sql.ErrNoRows {
			return ErrAlreadyDeleted
		}
		return fmt.Errorf("failed to mark expense deleted: %w", err)
	}

	entries, err := r.obligationEntries(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := r.ledger.ApplyExpenseDelete(ctx, tx, groupID, entries); err != nil {
		return err
	}

	if err := r.incrementGroupTotal(ctx, tx, groupID, -amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense delete: %w", err)
	}

	return nil
}

// GetByID retrieves an expense by its ID, deleted or not
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount, e.currency_code, e.split_type, e.deleted, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitType,
		&expense.Deleted,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetObligationsByExpenseID retrieves the stored obligations of an expense
func (r *Repository) GetObligationsByExpenseID(ctx context.Context, expenseID int64) ([]*Obligation, error) {
	query := `
		SELECT o.id, o.expense_id, o.user_id, o.amount_owed, o.amount_paid, u.username
		FROM obligations o
		JOIN users u ON o.user_id = u.id
		WHERE o.expense_id = $1
		ORDER BY o.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligations: %w", err)
	}
	defer rows.Close()

	var obligations []*Obligation
	for rows.Next() {
		obligation := &Obligation{}
		if err := rows.Scan(
			&obligation.ID,
			&obligation.ExpenseID,
			&obligation.UserID,
			&obligation.AmountOwed,
			&obligation.AmountPaid,
			&obligation.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, obligation)
	}

	return obligations, nil
}

// ListByGroupID retrieves the non-deleted expenses of a group
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1 AND deleted = FALSE`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount, e.currency_code, e.split_type, e.deleted, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.deleted = FALSE
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Description,
			&expense.Amount,
			&expense.CurrencyCode,
			&expense.SplitType,
			&expense.Deleted,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// obligationEntries reads an expense's stored obligations inside the
// transaction and converts them to ledger entries.
func (r *Repository) obligationEntries(ctx context.Context, tx *sql.Tx, expenseID int64) ([]ledger.Entry, error) {
	query := `
		SELECT user_id, amount_owed, amount_paid
		FROM obligations
		WHERE expense_id = $1
		ORDER BY id
	`

	rows, err := tx.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read obligations: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.UserID, &e.AmountOwed, &e.AmountPaid); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// incrementGroupTotal adjusts the group's running expense aggregate with an
// atomic add, matching the ledger's increment discipline.
func (r *Repository) incrementGroupTotal(ctx context.Context, tx *sql.Tx, groupID int64, delta float64) error {
	query := `UPDATE groups SET total_expenses = total_expenses + $2 WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, groupID, delta)
	if err != nil {
		return fmt.Errorf("failed to update group total: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update group total: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %d not found", groupID)
	}

	return nil
}
