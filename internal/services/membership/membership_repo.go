package membership

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
	ErrMembershipNotFound = fmt.Errorf("%w: membership", perrors.ErrNotFound)
	ErrAlreadyMember      = fmt.Errorf("%w: user is already an active member of the farm", perrors.ErrValidation)
)

// activeMembershipIndex is the partial unique index on (user_id, farm_id)
// for rows in the Active status.
const activeMembershipIndex = "idx_user_role_farm_active"

const membershipColumns = `
    m.id, m.user_id, m.farm_id, m.role_id, r.name AS role_name,
    m.status_id, s.name AS status_name, m.created_at, m.updated_at
`

const membershipFrom = `
    FROM user_role_farm m
    JOIN roles r ON r.id = m.role_id
    JOIN statuses s ON s.id = m.status_id
`

// MembershipRepo handles database operations for user_role_farm
type MembershipRepo struct {
	db *sqlx.DB
}

func NewMembershipRepo(db *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// GetByStatus returns the membership of a user on a farm in the given status
func (r *MembershipRepo) GetByStatus(ctx context.Context, userID, farmID, statusID uuid.UUID) (*Membership, error) {
	query := `SELECT ` + membershipColumns + membershipFrom + `
        WHERE m.user_id = $1 AND m.farm_id = $2 AND m.status_id = $3
        ORDER BY m.updated_at DESC
        LIMIT 1
    `

	var m Membership
	err := r.db.GetContext(ctx, &m, query, userID, farmID, statusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// GetLatest returns the most recently updated membership of a user on a
// farm regardless of status
func (r *MembershipRepo) GetLatest(ctx context.Context, userID, farmID uuid.UUID) (*Membership, error) {
	query := `SELECT ` + membershipColumns + membershipFrom + `
        WHERE m.user_id = $1 AND m.farm_id = $2
        ORDER BY m.updated_at DESC
        LIMIT 1
    `

	var m Membership
	err := r.db.GetContext(ctx, &m, query, userID, farmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// GetByID retrieves a membership by ID
func (r *MembershipRepo) GetByID(ctx context.Context, id uuid.UUID) (*Membership, error) {
	query := `SELECT ` + membershipColumns + membershipFrom + ` WHERE m.id = $1`

	var m Membership
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// Create inserts a membership row
func (r *MembershipRepo) Create(ctx context.Context, userID, farmID, roleID, statusID uuid.UUID) (*Membership, error) {
	query := `
        INSERT INTO user_role_farm (user_id, farm_id, role_id, status_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query, userID, farmID, roleID, statusID)
	if err != nil {
		if db.IsUniqueViolation(err, activeMembershipIndex) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update sets role and status of an existing membership row
func (r *MembershipRepo) Update(ctx context.Context, id, roleID, statusID uuid.UUID) (*Membership, error) {
	query := `
        UPDATE user_role_farm
        SET role_id = $1, status_id = $2, updated_at = NOW()
        WHERE id = $3
    `

	result, err := r.db.ExecContext(ctx, query, roleID, statusID, id)
	if err != nil {
		if db.IsUniqueViolation(err, activeMembershipIndex) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrMembershipNotFound
	}

	return r.GetByID(ctx, id)
}

// ListCollaborators returns the users holding a membership of the farm in
// the given status
func (r *MembershipRepo) ListCollaborators(ctx context.Context, farmID, statusID uuid.UUID) ([]*Collaborator, error) {
	query := `
        SELECT u.id AS user_id, u.name, u.email, m.role_id, r.name AS role_name
        FROM user_role_farm m
        JOIN users u ON u.id = m.user_id
        JOIN roles r ON r.id = m.role_id
        WHERE m.farm_id = $1 AND m.status_id = $2
        ORDER BY u.name
    `

	var out []*Collaborator
	if err := r.db.SelectContext(ctx, &out, query, farmID, statusID); err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}

	return out, nil
}
