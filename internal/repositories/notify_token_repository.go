package repositories

import (
	"context"
	"database/sql"
)

type NotifyTokenRepository struct {
	DB *sql.DB
}

func (r *NotifyTokenRepository) SaveToken(ctx context.Context, userID int, token string) error {
	query := `
        INSERT INTO notify_tokens (user_id, token)
        VALUES ($1, $2)
        ON CONFLICT (user_id, token) DO NOTHING
    `
	_, err := r.DB.ExecContext(ctx, query, userID, token)
	return err
}

func (r *NotifyTokenRepository) GetTokensByUserID(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM notify_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *NotifyTokenRepository) DeleteToken(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notify_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	return err
}
