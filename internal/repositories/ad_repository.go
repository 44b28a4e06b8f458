package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"obmenBack/internal/models"
)

type AdRepository struct {
	DB *sql.DB
}

func (r *AdRepository) CreateAd(ctx context.Context, ad models.Ad) (models.Ad, error) {
	query := `
        INSERT INTO ad (user_id, title, description, image_url, category, condition, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	ad.CreatedAt = time.Now()
	err := r.DB.QueryRowContext(ctx, query,
		ad.UserID,
		ad.Title,
		ad.Description,
		ad.ImageURL,
		ad.Category,
		ad.Condition,
		ad.CreatedAt,
	).Scan(&ad.ID)
	if err != nil {
		return models.Ad{}, err
	}
	return ad, nil
}

func (r *AdRepository) GetAdByID(ctx context.Context, id int) (models.Ad, error) {
	query := `
        SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category, a.condition,
               u.id, u.name, u.avatar_path,
               a.created_at, a.updated_at
        FROM ad a
        JOIN users u ON a.user_id = u.id
        WHERE a.id = $1
    `

	var a models.Ad
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Title, &a.Description, &a.ImageURL, &a.Category, &a.Condition,
		&a.User.ID, &a.User.Name, &a.User.AvatarPath,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ad{}, models.ErrAdNotFound
	}
	if err != nil {
		return models.Ad{}, fmt.Errorf("failed to get ad: %w", err)
	}
	return a, nil
}

func (r *AdRepository) UpdateAd(ctx context.Context, ad models.Ad) (models.Ad, error) {
	query := `
        UPDATE ad
        SET title = $1, description = $2, image_url = $3, category = $4, condition = $5, updated_at = $6
        WHERE id = $7
    `
	updatedAt := time.Now()
	ad.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query,
		ad.Title, ad.Description, ad.ImageURL, ad.Category, ad.Condition, ad.UpdatedAt, ad.ID,
	)
	if err != nil {
		return models.Ad{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Ad{}, err
	}
	if rowsAffected == 0 {
		return models.Ad{}, models.ErrAdNotFound
	}
	return r.GetAdByID(ctx, ad.ID)
}

// DeleteAd removes the ad together with any exchange proposals referencing
// it on either side. The schema carries ON DELETE CASCADE as well; the
// explicit delete keeps the behavior when the tables lack the constraint.
func (r *AdRepository) DeleteAd(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM exchange_proposals WHERE ad_sender_id = $1 OR ad_receiver_id = $1`, id,
	); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM ad WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrAdNotFound
	}

	return tx.Commit()
}

// GetAdsExcludingUser returns other users' ads. userID 0 means an anonymous
// viewer and returns the whole set unfiltered.
func (r *AdRepository) GetAdsExcludingUser(ctx context.Context, userID int) ([]models.Ad, error) {
	query := `
        SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category, a.condition,
               u.id, u.name, u.avatar_path,
               a.created_at, a.updated_at
        FROM ad a
        JOIN users u ON a.user_id = u.id
        WHERE $1 = 0 OR a.user_id <> $1
        ORDER BY a.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAds(rows)
}

func (r *AdRepository) GetAdsByUserID(ctx context.Context, userID int) ([]models.Ad, error) {
	query := `
        SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category, a.condition,
               u.id, u.name, u.avatar_path,
               a.created_at, a.updated_at
        FROM ad a
        JOIN users u ON a.user_id = u.id
        WHERE a.user_id = $1
        ORDER BY a.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAds(rows)
}

// SearchAds applies the optional full-text, category and condition filters
// AND-composed, ordered by created_at DESC with LIMIT/OFFSET paging.
func (r *AdRepository) SearchAds(ctx context.Context, req models.AdSearchRequest, limit, offset int) ([]models.Ad, error) {
	baseQuery := `
        SELECT a.id, a.user_id, a.title, a.description, a.image_url, a.category, a.condition,
               u.id, u.name, u.avatar_path,
               a.created_at, a.updated_at
        FROM ad a
        JOIN users u ON a.user_id = u.id
    `

	var (
		conditions []string
		params     []interface{}
	)

	if req.Query != "" {
		params = append(params, req.Query)
		conditions = append(conditions, fmt.Sprintf(
			"to_tsvector('simple', a.title || ' ' || a.description) @@ plainto_tsquery('simple', $%d)", len(params)))
	}
	if req.Category != "" {
		params = append(params, req.Category)
		conditions = append(conditions, fmt.Sprintf("a.category = $%d", len(params)))
	}
	if req.Condition != "" {
		params = append(params, req.Condition)
		conditions = append(conditions, fmt.Sprintf("a.condition = $%d", len(params)))
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	params = append(params, limit)
	baseQuery += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d", len(params))
	params = append(params, offset)
	baseQuery += fmt.Sprintf(" OFFSET $%d", len(params))

	rows, err := r.DB.QueryContext(ctx, baseQuery, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAds(rows)
}

func scanAds(rows *sql.Rows) ([]models.Ad, error) {
	var ads []models.Ad
	for rows.Next() {
		var a models.Ad
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &a.Description, &a.ImageURL, &a.Category, &a.Condition,
			&a.User.ID, &a.User.Name, &a.User.AvatarPath,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		ads = append(ads, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ads, nil
}
