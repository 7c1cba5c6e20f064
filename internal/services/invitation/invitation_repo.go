package invitation

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
	ErrInvitationNotFound = fmt.Errorf("%w: invitation", perrors.ErrNotFound)
	ErrPendingInvitation  = fmt.Errorf("%w: a pending invitation already exists for that email", perrors.ErrValidation)
	ErrNotPending         = fmt.Errorf("%w: invitation is no longer pending", perrors.ErrInvalidState)
)

const pendingInvitationIndex = "idx_invitations_farm_email_pending"

const invitationColumns = `
    i.id, i.farm_id, f.name AS farm_name, i.email, i.suggested_role_id, r.name AS suggested_role_name,
    i.inviter_user_id, i.status_id, s.name AS status_name, i.created_at, i.updated_at
`

const invitationJoins = `
    FROM invitations i
    JOIN farms f ON f.id = i.farm_id
    JOIN roles r ON r.id = i.suggested_role_id
    JOIN statuses s ON s.id = i.status_id
`

type InvitationRepo struct {
	db *sqlx.DB
}

func NewInvitationRepo(db *sqlx.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *Invitation) (*Invitation, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO invitations (farm_id, email, suggested_role_id, inviter_user_id, status_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, inv.FarmID, inv.Email, inv.SuggestedRoleID, inv.InviterUserID, inv.StatusID)
	if err != nil {
		if db.IsUniqueViolation(err, pendingInvitationIndex) {
			return nil, ErrPendingInvitation
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *InvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	if err := r.db.GetContext(ctx, &inv, `SELECT `+invitationColumns+invitationJoins+` WHERE i.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepo) ExistsForEmail(ctx context.Context, farmID uuid.UUID, email string, statusID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM invitations
            WHERE farm_id = $1 AND lower(email) = lower($2) AND status_id = $3
        )
    `, farmID, email, statusID)
	if err != nil {
		return false, fmt.Errorf("failed to check invitations: %w", err)
	}
	return exists, nil
}

func (r *InvitationRepo) ListByEmail(ctx context.Context, email string, statusID uuid.UUID) ([]*Invitation, error) {
	var invitations []*Invitation
	query := `SELECT ` + invitationColumns + invitationJoins + `
        WHERE lower(i.email) = lower($1) AND i.status_id = $2
        ORDER BY i.created_at DESC
    `
	if err := r.db.SelectContext(ctx, &invitations, query, email, statusID); err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// Transition moves the invitation from one status to another. It fails with
// ErrNotPending when the row is no longer in fromStatusID.
func (r *InvitationRepo) Transition(ctx context.Context, id, fromStatusID, toStatusID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE invitations SET status_id = $1, updated_at = NOW()
        WHERE id = $2 AND status_id = $3
    `, toStatusID, id, fromStatusID)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotPending
	}
	return nil
}
