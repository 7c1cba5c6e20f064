package collaborator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/google/uuid"
)

var (
	ErrSelfEdit        = fmt.Errorf("%w: you cannot change your own role", perrors.ErrValidation)
	ErrSelfDelete      = fmt.Errorf("%w: you cannot remove yourself from the farm", perrors.ErrValidation)
	ErrSameRole        = fmt.Errorf("%w: the collaborator already holds that role", perrors.ErrValidation)
	ErrNotCollaborator = fmt.Errorf("%w: collaborator is not an active member of the farm", perrors.ErrNotFound)
	ErrRoleNotAllowed  = fmt.Errorf("%w: your role cannot manage that role", perrors.ErrUnauthorized)
)

type Guard interface {
	Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error)
	Member(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error)
}

type Memberships interface {
	GetActive(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error)
	ChangeRole(ctx context.Context, m *membership.Membership, roleID uuid.UUID) (*membership.Membership, error)
	Deactivate(ctx context.Context, m *membership.Membership) (*membership.Membership, error)
	ListCollaborators(ctx context.Context, farmID uuid.UUID) ([]*membership.Collaborator, error)
}

type Roles interface {
	GetRole(ctx context.Context, id uuid.UUID) (*permission.Role, error)
	CanAssign(ctx context.Context, actingRoleID, targetRoleID uuid.UUID) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool)
}

// CollaboratorService edits and removes farm collaborators under the role
// hierarchy.
type CollaboratorService struct {
	guard       Guard
	memberships Memberships
	roles       Roles
	notifier    Notifier
}

func NewCollaboratorService(guard Guard, memberships Memberships, roles Roles, notifier Notifier) *CollaboratorService {
	return &CollaboratorService{guard: guard, memberships: memberships, roles: roles, notifier: notifier}
}

func (s *CollaboratorService) List(ctx context.Context, userID, farmID uuid.UUID) ([]*membership.Collaborator, error) {
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.ReadCollaborators); err != nil {
		return nil, err
	}
	return s.memberships.ListCollaborators(ctx, farmID)
}

func (s *CollaboratorService) activeCollaborator(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error) {
	m, err := s.memberships.GetActive(ctx, userID, farmID)
	if err != nil {
		if errors.Is(err, membership.ErrMembershipNotFound) {
			return nil, ErrNotCollaborator
		}
		return nil, err
	}
	return m, nil
}

func (s *CollaboratorService) outranks(ctx context.Context, actingRoleID, targetRoleID uuid.UUID) error {
	ok, err := s.roles.CanAssign(ctx, actingRoleID, targetRoleID)
	if err != nil {
		return fmt.Errorf("failed to check role hierarchy: %w", err)
	}
	if !ok {
		return ErrRoleNotAllowed
	}
	return nil
}

// EditRole moves a collaborator to roleID. Checks run in order: self-edit,
// target membership, no-op, the role-specific permission, then the role
// hierarchy for both the requested and the current role.
func (s *CollaboratorService) EditRole(ctx context.Context, userID, farmID, collaboratorID, roleID uuid.UUID) (*membership.Membership, error) {
	if userID == collaboratorID {
		return nil, ErrSelfEdit
	}

	if _, err := s.guard.Member(ctx, userID, farmID); err != nil {
		return nil, err
	}

	target, err := s.activeCollaborator(ctx, collaboratorID, farmID)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if target.RoleID == role.ID {
		return nil, ErrSameRole
	}

	required, ok := permission.RequiredAssignPermission(role.Name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrRoleNotAllowed, role.Name)
	}

	acting, err := s.guard.Authorize(ctx, userID, farmID, required)
	if err != nil {
		return nil, err
	}

	if err := s.outranks(ctx, acting.RoleID, role.ID); err != nil {
		return nil, err
	}
	if err := s.outranks(ctx, acting.RoleID, target.RoleID); err != nil {
		return nil, err
	}

	updated, err := s.memberships.ChangeRole(ctx, target, role.ID)
	if err != nil {
		return nil, err
	}
	updated.RoleName = role.Name

	slog.Info("Collaborator role changed",
		slog.String("farm_id", farmID.String()),
		slog.String("collaborator_id", collaboratorID.String()),
		slog.String("role", role.Name),
	)

	s.notify(ctx, collaboratorID, farmID, notification.KindRoleChanged, fmt.Sprintf("Tu rol en la finca ahora es %s", role.Name))
	return updated, nil
}

// Delete deactivates a collaborator's membership. The permission required
// depends on the collaborator's current role.
func (s *CollaboratorService) Delete(ctx context.Context, userID, farmID, collaboratorID uuid.UUID) error {
	if userID == collaboratorID {
		return ErrSelfDelete
	}

	if _, err := s.guard.Member(ctx, userID, farmID); err != nil {
		return err
	}

	target, err := s.activeCollaborator(ctx, collaboratorID, farmID)
	if err != nil {
		return err
	}

	required, ok := permission.RequiredDeletePermission(target.RoleName)
	if !ok {
		return fmt.Errorf("%w %q", ErrRoleNotAllowed, target.RoleName)
	}

	acting, err := s.guard.Authorize(ctx, userID, farmID, required)
	if err != nil {
		return err
	}

	if err := s.outranks(ctx, acting.RoleID, target.RoleID); err != nil {
		return err
	}

	if _, err := s.memberships.Deactivate(ctx, target); err != nil {
		return err
	}

	slog.Info("Collaborator removed",
		slog.String("farm_id", farmID.String()),
		slog.String("collaborator_id", collaboratorID.String()),
	)

	s.notify(ctx, collaboratorID, farmID, notification.KindCollaboratorRemoved, "Has sido retirado de la finca")
	return nil
}

func (s *CollaboratorService) notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, farmID, kind, message, false)
}
