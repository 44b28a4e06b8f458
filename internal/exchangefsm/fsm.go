package exchangefsm

import (
	"context"
	"database/sql"

	"obmenBack/internal/models"
)

// Status constants used by the exchange proposal state machine.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

var transitions = map[string]map[string]struct{}{
	StatusPending:   {StatusConfirmed: {}, StatusDeclined: {}},
	StatusConfirmed: {},
	StatusDeclined:  {},
}

// Known reports whether the value is a member of the closed status enum.
func Known(status string) bool {
	_, ok := transitions[status]
	return ok
}

// Terminal reports whether no transition leads out of the status.
func Terminal(status string) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// CanTransition returns whether a proposal can move from the current status
// to the target status. Re-applying the current status is not allowed:
// a second accept or decline must surface as an invalid transition.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply updates a proposal status with a guarded write: the UPDATE only
// matches while the row still holds fromStatus, so of two concurrent
// transitions exactly one wins and the other observes ErrInvalidStatus.
func Apply(ctx context.Context, db execer, proposalID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return models.ErrInvalidStatus
	}
	res, err := db.ExecContext(ctx,
		`UPDATE exchange_proposals SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		toStatus, proposalID, fromStatus,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
