package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"obmenBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

// isUniqueViolation reports a PostgreSQL unique-constraint error
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, user.Email,
	).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, models.ErrDuplicateEmail
	}

	query := `
        INSERT INTO users (name, phone, email, password, avatar_path, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = time.Now()
	err := r.DB.QueryRowContext(ctx, query,
		user.Name,
		user.Phone,
		user.Email,
		user.Password,
		user.AvatarPath,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		// гонка двух регистраций: сработал UNIQUE по email
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `
        SELECT id, name, phone, email, password, avatar_path, role, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Phone, &u.Email, &u.Password, &u.AvatarPath, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
        SELECT id, name, phone, email, password, avatar_path, role, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Phone, &u.Email, &u.Password, &u.AvatarPath, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
        UPDATE users
        SET name = $1, phone = $2, avatar_path = $3, updated_at = $4
        WHERE id = $5
    `
	updatedAt := time.Now()
	user.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Phone, user.AvatarPath, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return models.User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if rowsAffected == 0 {
		return models.User{}, models.ErrUserNotFound
	}
	return r.GetUserByID(ctx, user.ID)
}
