package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/divvyup/divvy/internal/ledger"
)

// ErrStatusConflict is returned when a status change races with another
// writer or targets a settlement that is not in the expected state.
var ErrStatusConflict = errors.New("settlement is not in the expected status")

// Repository persists settlements and coordinates their balance effects.
// Like the expense coordinator, every mutation pairs the record write with
// its ledger delta in one transaction.
type Repository struct {
	db     *sql.DB
	ledger *ledger.Ledger
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB, l *ledger.Ledger) *Repository {
	return &Repository{db: db, ledger: l}
}

// Create records a settlement and applies its balance effect atomically:
// the payer's balance rises by the amount, the receiver's falls by it.
func (r *Repository) Create(ctx context.Context, groupID, payerID, receiverID int64, amount float64, currency string) (*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settlements (group_id, payer_id, receiver_id, amount, currency_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, receiver_id, amount, currency_code, status, created_at, updated_at
	`

	settlement := &Settlement{}
	err = tx.QueryRowContext(ctx, query, groupID, payerID, receiverID, amount, currency, SettlementStatusPending).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	if err := r.ledger.ApplySettlementCreate(ctx, tx, groupID, payerID, receiverID, amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return settlement, nil
}

// Confirm flips a pending settlement to confirmed. The balance effect was
// applied at creation, so confirmation is a pure status change.
func (r *Repository) Confirm(ctx context.Context, id int64) (*Settlement, error) {
	return r.updateStatus(ctx, id, SettlementStatusPending, SettlementStatusConfirmed)
}

// Reject flips a pending settlement to rejected and reverses its balance
// effect in the same transaction.
func (r *Repository) Reject(ctx context.Context, id int64) (*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE settlements
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, group_id, payer_id, receiver_id, amount, currency_code, status, created_at, updated_at
	`

	settlement := &Settlement{}
	err = tx.QueryRowContext(ctx, query, id, SettlementStatusPending, SettlementStatusRejected).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to reject settlement: %w", err)
	}

	if err := r.ledger.ApplySettlementReverse(ctx, tx, settlement.GroupID, settlement.PayerID, settlement.ReceiverID, settlement.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement reject: %w", err)
	}

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount, s.currency_code, s.status, s.created_at, s.updated_at,
		       p.username AS payer_username, recv.username AS receiver_username
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users recv ON s.receiver_id = recv.id
		WHERE s.id = $1
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
		&settlement.PayerUsername,
		&settlement.ReceiverUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListByGroupID retrieves the settlements of a group
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount, s.currency_code, s.status, s.created_at, s.updated_at,
		       p.username AS payer_username, recv.username AS receiver_username
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users recv ON s.receiver_id = recv.id
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement := &Settlement{}
		if err := rows.Scan(
			&settlement.ID,
			&settlement.GroupID,
			&settlement.PayerID,
			&settlement.ReceiverID,
			&settlement.Amount,
			&settlement.CurrencyCode,
			&settlement.Status,
			&settlement.CreatedAt,
			&settlement.UpdatedAt,
			&settlement.PayerUsername,
			&settlement.ReceiverUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	return settlements, total, nil
}

// updateStatus performs a guarded status transition without a ledger delta
func (r *Repository) updateStatus(ctx context.Context, id int64, from, to SettlementStatus) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, group_id, payer_id, receiver_id, amount, currency_code, status, created_at, updated_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id, from, to).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to update settlement status: %w", err)
	}

	return settlement, nil
}
