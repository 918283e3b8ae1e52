// Package ledger owns member balances.
//
// A member's stored balance must always equal the net effect of every
// non-reversed obligation and settlement touching them. To keep that true
// under concurrent writes, every mutation here is a single SQL
// "balance = balance + delta" increment executed inside the caller's
// transaction. Balances are never read, modified and written back.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/divvyup/divvy/pkg/money"
)

// ErrMemberNotFound is returned when a delta targets a user that is not an
// active member of the group. The caller is expected to roll back.
var ErrMemberNotFound = errors.New("member not found in group")

// Entry is one obligation's effect on one member: how much of the expense
// they owe and how much of it they paid.
type Entry struct {
	UserID     int64
	AmountOwed float64
	AmountPaid float64
}

// Ledger applies balance deltas. It holds no state of its own; all methods
// operate on the transaction they are given so that deltas commit or roll
// back together with the records that caused them.
type Ledger struct{}

// New creates a new ledger.
func New() *Ledger {
	return &Ledger{}
}

// CreateDelta is the balance change an entry causes on creation: what the
// member paid minus what they owe.
func CreateDelta(e Entry) float64 {
	return money.Round(e.AmountPaid - e.AmountOwed)
}

// DeleteDelta is the exact inverse of CreateDelta.
func DeleteDelta(e Entry) float64 {
	return money.Round(e.AmountOwed - e.AmountPaid)
}

// ApplyExpenseCreate credits each member with what they paid minus what they
// owe. The payer's balance rises by the amount others owe them; everyone
// else's falls by their share.
func (l *Ledger) ApplyExpenseCreate(ctx context.Context, tx *sql.Tx, groupID int64, entries []Entry) error {
	for _, e := range entries {
		if err := l.increment(ctx, tx, groupID, e.UserID, CreateDelta(e)); err != nil {
			return err
		}
	}
	return nil
}

// ApplyExpenseDelete is the exact inverse of ApplyExpenseCreate. It must be
// called with the entries as they were stored at creation time, not a
// recomputation, so the reversal cancels precisely what was applied.
func (l *Ledger) ApplyExpenseDelete(ctx context.Context, tx *sql.Tx, groupID int64, entries []Entry) error {
	for _, e := range entries {
		if err := l.increment(ctx, tx, groupID, e.UserID, DeleteDelta(e)); err != nil {
			return err
		}
	}
	return nil
}

// ApplySettlementCreate records a direct payment: the payer's balance rises
// by the amount (their debt shrinks), the receiver's falls by it.
func (l *Ledger) ApplySettlementCreate(ctx context.Context, tx *sql.Tx, groupID, fromUserID, toUserID int64, amount float64) error {
	amount = money.Round(amount)
	if err := l.increment(ctx, tx, groupID, fromUserID, amount); err != nil {
		return err
	}
	return l.increment(ctx, tx, groupID, toUserID, -amount)
}

// ApplySettlementReverse undoes ApplySettlementCreate, used when a recorded
// settlement is rejected before confirmation.
func (l *Ledger) ApplySettlementReverse(ctx context.Context, tx *sql.Tx, groupID, fromUserID, toUserID int64, amount float64) error {
	amount = money.Round(amount)
	if err := l.increment(ctx, tx, groupID, fromUserID, -amount); err != nil {
		return err
	}
	return l.increment(ctx, tx, groupID, toUserID, amount)
}

// increment is the only statement that ever touches a balance field. The
// add-to-field form makes concurrent increments from different transactions
// commute instead of racing.
func (l *Ledger) increment(ctx context.Context, tx *sql.Tx, groupID, userID int64, delta float64) error {
	query := `
		UPDATE group_members
		SET balance = balance + $3
		WHERE group_id = $1 AND user_id = $2 AND is_active = TRUE
	`

	result, err := tx.ExecContext(ctx, query, groupID, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d in group %d", ErrMemberNotFound, userID, groupID)
	}

	return nil
}
