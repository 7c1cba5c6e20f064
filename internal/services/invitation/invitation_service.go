package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/user"
	"github.com/google/uuid"
)

var (
	ErrNotInvitee     = fmt.Errorf("%w: invitation was sent to another email", perrors.ErrUnauthorized)
	ErrRoleNotAllowed = fmt.Errorf("%w: your role cannot invite with that role", perrors.ErrUnauthorized)
)

type Repository interface {
	Create(ctx context.Context, inv *Invitation) (*Invitation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	ExistsForEmail(ctx context.Context, farmID uuid.UUID, email string, statusID uuid.UUID) (bool, error)
	ListByEmail(ctx context.Context, email string, statusID uuid.UUID) ([]*Invitation, error)
	Transition(ctx context.Context, id, fromStatusID, toStatusID uuid.UUID) error
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type Guard interface {
	Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error)
}

type Roles interface {
	GetRole(ctx context.Context, id uuid.UUID) (*permission.Role, error)
	CanAssign(ctx context.Context, actingRoleID, targetRoleID uuid.UUID) (bool, error)
}

type Memberships interface {
	GetActive(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error)
	Activate(ctx context.Context, userID, farmID, roleID uuid.UUID) (*membership.Membership, error)
}

type Farms interface {
	GetActive(ctx context.Context, farmID uuid.UUID) (*farm.Farm, error)
}

type Users interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool)
}

type InvitationService struct {
	repo        Repository
	statuses    StatusRegistry
	guard       Guard
	roles       Roles
	memberships Memberships
	farms       Farms
	users       Users
	notifier    Notifier
}

func NewInvitationService(repo Repository, statuses StatusRegistry, guard Guard, roles Roles, memberships Memberships, farms Farms, users Users, notifier Notifier) *InvitationService {
	return &InvitationService{
		repo:        repo,
		statuses:    statuses,
		guard:       guard,
		roles:       roles,
		memberships: memberships,
		farms:       farms,
		users:       users,
		notifier:    notifier,
	}
}

func (s *InvitationService) status(ctx context.Context, name string) (*status.Status, error) {
	return s.statuses.Get(ctx, name, status.TypeInvitation)
}

// Create invites email to the farm with a role the inviter may assign
func (s *InvitationService) Create(ctx context.Context, userID, farmID uuid.UUID, req *CreateInvitationRequest) (*Invitation, error) {
	acting, err := s.guard.Authorize(ctx, userID, farmID, permission.AddCollaborator)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetRole(ctx, req.SuggestedRoleID)
	if err != nil {
		return nil, err
	}
	ok, err := s.roles.CanAssign(ctx, acting.RoleID, role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check role hierarchy: %w", err)
	}
	if !ok {
		return nil, ErrRoleNotAllowed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	invitee, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		invitee = nil
	case err != nil:
		return nil, err
	default:
		if _, err := s.memberships.GetActive(ctx, invitee.ID, farmID); err == nil {
			return nil, membership.ErrAlreadyMember
		} else if !errors.Is(err, membership.ErrMembershipNotFound) {
			return nil, err
		}
	}

	pending, err := s.status(ctx, status.InvitationPending)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsForEmail(ctx, farmID, email, pending.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPendingInvitation
	}

	inv, err := s.repo.Create(ctx, &Invitation{
		FarmID:          farmID,
		Email:           email,
		SuggestedRoleID: role.ID,
		InviterUserID:   userID,
		StatusID:        pending.ID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Invitation created", slog.String("invitation_id", inv.ID.String()), slog.String("farm_id", farmID.String()))

	if invitee != nil && s.notifier != nil {
		s.notifier.Notify(ctx, invitee.ID, farmID, notification.KindInvitation,
			fmt.Sprintf("Te invitaron a la finca %s como %s", inv.FarmName, inv.SuggestedRoleName), true)
	}

	return inv, nil
}

func (s *InvitationService) pendingFor(ctx context.Context, email string, invitationID uuid.UUID) (*Invitation, *status.Status, error) {
	inv, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, nil, err
	}
	if !strings.EqualFold(inv.Email, email) {
		return nil, nil, ErrNotInvitee
	}
	pending, err := s.status(ctx, status.InvitationPending)
	if err != nil {
		return nil, nil, err
	}
	if inv.StatusID != pending.ID {
		return nil, nil, ErrNotPending
	}
	return inv, pending, nil
}

// Accept joins the invitee to the farm with the suggested role. An Inactive
// membership from an earlier stint is reactivated. A deleted farm cannot be
// joined.
func (s *InvitationService) Accept(ctx context.Context, userID uuid.UUID, email string, invitationID uuid.UUID) (*membership.Membership, error) {
	inv, pending, err := s.pendingFor(ctx, email, invitationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.farms.GetActive(ctx, inv.FarmID); err != nil {
		return nil, err
	}

	accepted, err := s.status(ctx, status.InvitationAccepted)
	if err != nil {
		return nil, err
	}

	m, err := s.memberships.Activate(ctx, userID, inv.FarmID, inv.SuggestedRoleID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Transition(ctx, inv.ID, pending.ID, accepted.ID); err != nil {
		return nil, err
	}

	slog.Info("Invitation accepted", slog.String("invitation_id", inv.ID.String()), slog.String("user_id", userID.String()))

	if s.notifier != nil {
		s.notifier.Notify(ctx, inv.InviterUserID, inv.FarmID, notification.KindInvitationAccepted,
			fmt.Sprintf("%s aceptó la invitación a %s", email, inv.FarmName), false)
	}

	return m, nil
}

func (s *InvitationService) Reject(ctx context.Context, email string, invitationID uuid.UUID) error {
	inv, pending, err := s.pendingFor(ctx, email, invitationID)
	if err != nil {
		return err
	}

	rejected, err := s.status(ctx, status.InvitationRejected)
	if err != nil {
		return err
	}

	return s.repo.Transition(ctx, inv.ID, pending.ID, rejected.ID)
}

// ListMine returns the pending invitations addressed to email
func (s *InvitationService) ListMine(ctx context.Context, email string) ([]*Invitation, error) {
	pending, err := s.status(ctx, status.InvitationPending)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEmail(ctx, email, pending.ID)
}
