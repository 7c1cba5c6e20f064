package farm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrFarmNotFound = fmt.Errorf("%w: farm", perrors.ErrNotFound)

const farmColumns = `
    f.id, f.name, f.area_hectares, f.status_id, s.name AS status_name, f.created_at, f.updated_at
`

type FarmRepo struct {
	db *sqlx.DB
}

func NewFarmRepo(db *sqlx.DB) *FarmRepo {
	return &FarmRepo{db: db}
}

// CreateWithOwner inserts the farm and the creator's membership in one
// transaction
func (r *FarmRepo) CreateWithOwner(ctx context.Context, name string, area float64, statusID, ownerID, ownerRoleID, membershipStatusID uuid.UUID) (*Farm, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.GetContext(ctx, &id, `
        INSERT INTO farms (name, area_hectares, status_id)
        VALUES ($1, $2, $3)
        RETURNING id
    `, name, area, statusID)
	if err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO user_role_farm (user_id, farm_id, role_id, status_id)
        VALUES ($1, $2, $3, $4)
    `, ownerID, id, ownerRoleID, membershipStatusID)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *FarmRepo) GetByID(ctx context.Context, id uuid.UUID) (*Farm, error) {
	query := `SELECT ` + farmColumns + `
		FROM farms f
		JOIN statuses s ON s.id = f.status_id
		WHERE f.id = $1
	`
	var f Farm
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFarmNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &f, nil
}

// ListForUser returns the farms with the given status where the user holds a
// membership with membershipStatusID
func (r *FarmRepo) ListForUser(ctx context.Context, userID, statusID, membershipStatusID uuid.UUID) ([]*UserFarm, error) {
	query := `SELECT ` + farmColumns + `, urf.role_id, ro.name AS role_name
		FROM farms f
		JOIN statuses s ON s.id = f.status_id
		JOIN user_role_farm urf ON urf.farm_id = f.id
		JOIN roles ro ON ro.id = urf.role_id
		WHERE urf.user_id = $1 AND f.status_id = $2 AND urf.status_id = $3
		ORDER BY f.name
	`
	var farms []*UserFarm
	if err := r.db.SelectContext(ctx, &farms, query, userID, statusID, membershipStatusID); err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	return farms, nil
}

func (r *FarmRepo) Update(ctx context.Context, f *Farm) (*Farm, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE farms SET name = $1, area_hectares = $2, updated_at = NOW()
        WHERE id = $3
    `, f.Name, f.AreaHectares, f.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update farm: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrFarmNotFound
	}
	return r.GetByID(ctx, f.ID)
}

// Deactivate soft-deletes the farm and every membership on it and cancels
// its pending invitations, all in one transaction
func (r *FarmRepo) Deactivate(ctx context.Context, id uuid.UUID, to Deactivation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE farms SET status_id = $1, updated_at = NOW() WHERE id = $2`, to.FarmStatusID, id)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return ErrFarmNotFound
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE user_role_farm SET status_id = $1, updated_at = NOW()
        WHERE farm_id = $2
    `, to.MembershipStatusID, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate memberships: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE invitations SET status_id = $1, updated_at = NOW()
        WHERE farm_id = $2 AND status_id = $3
    `, to.CancelledInvitationID, id, to.PendingInvitationID)
	if err != nil {
		return fmt.Errorf("failed to cancel invitations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
