package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

type Repository interface {
	GetByStatus(ctx context.Context, userID, farmID, statusID uuid.UUID) (*Membership, error)
	GetLatest(ctx context.Context, userID, farmID uuid.UUID) (*Membership, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Membership, error)
	Create(ctx context.Context, userID, farmID, roleID, statusID uuid.UUID) (*Membership, error)
	Update(ctx context.Context, id, roleID, statusID uuid.UUID) (*Membership, error)
	ListCollaborators(ctx context.Context, farmID, statusID uuid.UUID) ([]*Collaborator, error)
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

// MembershipService manages the active/inactive binding of users to farms
type MembershipService struct {
	repo     Repository
	statuses StatusRegistry
}

func NewMembershipService(repo Repository, statuses StatusRegistry) *MembershipService {
	return &MembershipService{repo: repo, statuses: statuses}
}

func (s *MembershipService) statusID(ctx context.Context, name string) (uuid.UUID, error) {
	st, err := s.statuses.Get(ctx, name, status.TypeUserRoleFarm)
	if err != nil {
		return uuid.Nil, err
	}
	return st.ID, nil
}

// GetActive returns the user's Active membership on the farm, or
// ErrMembershipNotFound
func (s *MembershipService) GetActive(ctx context.Context, userID, farmID uuid.UUID) (*Membership, error) {
	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByStatus(ctx, userID, farmID, activeID)
}

// Activate binds the user to the farm with the role. An Inactive row for the
// pair is reactivated rather than duplicated.
func (s *MembershipService) Activate(ctx context.Context, userID, farmID, roleID uuid.UUID) (*Membership, error) {
	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.GetLatest(ctx, userID, farmID)
	switch {
	case errors.Is(err, ErrMembershipNotFound):
		return s.repo.Create(ctx, userID, farmID, roleID, activeID)
	case err != nil:
		return nil, fmt.Errorf("failed to get membership: %w", err)
	case latest.StatusID == activeID:
		return nil, ErrAlreadyMember
	}

	m, err := s.repo.Update(ctx, latest.ID, roleID, activeID)
	if err != nil {
		return nil, err
	}

	slog.Info("Reactivated farm membership", slog.String("user_id", userID.String()), slog.String("farm_id", farmID.String()))
	return m, nil
}

// ChangeRole moves an existing membership to another role in place
func (s *MembershipService) ChangeRole(ctx context.Context, m *Membership, roleID uuid.UUID) (*Membership, error) {
	return s.repo.Update(ctx, m.ID, roleID, m.StatusID)
}

// Deactivate soft-deletes the membership
func (s *MembershipService) Deactivate(ctx context.Context, m *Membership) (*Membership, error) {
	inactiveID, err := s.statusID(ctx, status.Inactive)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, m.ID, m.RoleID, inactiveID)
}

// ListCollaborators returns the Active members of the farm
func (s *MembershipService) ListCollaborators(ctx context.Context, farmID uuid.UUID) ([]*Collaborator, error) {
	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCollaborators(ctx, farmID, activeID)
}
