package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"obmenBack/internal/exchangefsm"
	"obmenBack/internal/models"
)

type ExchangeRepository struct {
	DB *sql.DB
}

func (r *ExchangeRepository) CreateProposal(ctx context.Context, p models.ExchangeProposal) (models.ExchangeProposal, error) {
	query := `
        INSERT INTO exchange_proposals (ad_sender_id, ad_receiver_id, owner_id, comment, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	p.Status = exchangefsm.StatusPending
	p.CreatedAt = time.Now()
	err := r.DB.QueryRowContext(ctx, query,
		p.AdSenderID,
		p.AdReceiverID,
		p.OwnerID,
		p.Comment,
		p.Status,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return models.ExchangeProposal{}, err
	}
	return p, nil
}

func (r *ExchangeRepository) GetProposalByID(ctx context.Context, id int) (models.ExchangeProposal, error) {
	query := `
        SELECT p.id, p.ad_sender_id, p.ad_receiver_id, p.owner_id, p.comment, p.status,
               s.title, rc.title,
               p.created_at, p.updated_at
        FROM exchange_proposals p
        JOIN ad s ON s.id = p.ad_sender_id
        JOIN ad rc ON rc.id = p.ad_receiver_id
        WHERE p.id = $1
    `

	var p models.ExchangeProposal
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.AdSenderID, &p.AdReceiverID, &p.OwnerID, &p.Comment, &p.Status,
		&p.SenderTitle, &p.ReceiverTitle,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ExchangeProposal{}, models.ErrProposalNotFound
	}
	if err != nil {
		return models.ExchangeProposal{}, fmt.Errorf("failed to get proposal: %w", err)
	}
	return p, nil
}

// UpdateStatusFrom transitions the proposal with a guarded write. When the
// guard misses it tells a missing row apart from a row that already left
// fromStatus.
func (r *ExchangeRepository) UpdateStatusFrom(ctx context.Context, id int, fromStatus, toStatus string) error {
	err := exchangefsm.Apply(ctx, r.DB, id, fromStatus, toStatus)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := r.DB.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM exchange_proposals WHERE id = $1)`, id,
		).Scan(&exists); checkErr != nil {
			return checkErr
		}
		if !exists {
			return models.ErrProposalNotFound
		}
		return models.ErrInvalidStatus
	}
	return err
}

func (r *ExchangeRepository) DeleteProposal(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM exchange_proposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrProposalNotFound
	}
	return nil
}

// GetResolvedByUserID returns confirmed proposals touching any of the
// user's ads, on either side of the trade.
func (r *ExchangeRepository) GetResolvedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return r.fetchProposals(ctx,
		`(s.user_id = $1 OR rc.user_id = $1) AND p.status = $2`,
		userID, exchangefsm.StatusConfirmed)
}

// GetRejectedByUserID returns declined proposals touching any of the
// user's ads.
func (r *ExchangeRepository) GetRejectedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return r.fetchProposals(ctx,
		`(s.user_id = $1 OR rc.user_id = $1) AND p.status = $2`,
		userID, exchangefsm.StatusDeclined)
}

// GetOutgoingByUserID returns the user's own pending proposals.
func (r *ExchangeRepository) GetOutgoingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return r.fetchProposals(ctx,
		`p.owner_id = $1 AND p.status = $2`,
		userID, exchangefsm.StatusPending)
}

// GetIncomingByUserID returns pending proposals targeting the user's ads.
func (r *ExchangeRepository) GetIncomingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return r.fetchProposals(ctx,
		`s.user_id = $1 AND p.status = $2`,
		userID, exchangefsm.StatusPending)
}

func (r *ExchangeRepository) fetchProposals(ctx context.Context, where string, params ...interface{}) ([]models.ExchangeProposal, error) {
	query := `
        SELECT p.id, p.ad_sender_id, p.ad_receiver_id, p.owner_id, p.comment, p.status,
               s.title, rc.title,
               p.created_at, p.updated_at
        FROM exchange_proposals p
        JOIN ad s ON s.id = p.ad_sender_id
        JOIN ad rc ON rc.id = p.ad_receiver_id
        WHERE ` + where + `
        ORDER BY p.created_at DESC
    `

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.ExchangeProposal
	for rows.Next() {
		var p models.ExchangeProposal
		if err := rows.Scan(
			&p.ID, &p.AdSenderID, &p.AdReceiverID, &p.OwnerID, &p.Comment, &p.Status,
			&p.SenderTitle, &p.ReceiverTitle,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return proposals, nil
}
