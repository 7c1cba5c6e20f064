package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrStatusNotFound = fmt.Errorf("%w: status", perrors.ErrNotFound)

// StatusRepo handles database operations for the status registry
type StatusRepo struct {
	db *sqlx.DB
}

func NewStatusRepo(db *sqlx.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

// GetByName looks a status up by its exact name within a status type
func (r *StatusRepo) GetByName(ctx context.Context, name, typeName string) (*Status, error) {
	query := `
        SELECT s.id, s.name, s.status_type_id, st.name AS status_type_name
        FROM statuses s
        JOIN status_types st ON st.id = s.status_type_id
        WHERE s.name = $1 AND st.name = $2
    `

	var s Status
	err := r.db.GetContext(ctx, &s, query, name, typeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &s, nil
}

// GetByID retrieves a status by ID
func (r *StatusRepo) GetByID(ctx context.Context, id uuid.UUID) (*Status, error) {
	query := `
        SELECT s.id, s.name, s.status_type_id, st.name AS status_type_name
        FROM statuses s
        JOIN status_types st ON st.id = s.status_type_id
        WHERE s.id = $1
    `

	var s Status
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &s, nil
}
