package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/db"
	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: user", perrors.ErrNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", perrors.ErrValidation)
)

const userColumns = `
    u.id, u.name, u.email, u.password_hash, u.status_id, s.name AS status_name,
    u.created_at, u.updated_at
`

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, statusID uuid.UUID) (*User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, status_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query, name, email, passwordHash, statusID)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		JOIN statuses s ON s.id = u.status_id
		WHERE lower(u.email) = lower($1)
	`
	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		JOIN statuses s ON s.id = u.status_id
		WHERE u.id = $1
	`
	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET status_id = $1, updated_at = NOW() WHERE id = $2`, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return expectOne(result)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
