package farm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrDuplicateName = fmt.Errorf("%w: you already have a farm with that name", perrors.ErrValidation)
	ErrInvalidArea   = fmt.Errorf("%w: area must be greater than zero", perrors.ErrValidation)
	ErrNameRequired  = fmt.Errorf("%w: name is required", perrors.ErrValidation)
	ErrFarmInactive  = fmt.Errorf("%w: farm is inactive", perrors.ErrInvalidState)
)

type Repository interface {
	CreateWithOwner(ctx context.Context, name string, area float64, statusID, ownerID, ownerRoleID, membershipStatusID uuid.UUID) (*Farm, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Farm, error)
	ListForUser(ctx context.Context, userID, statusID, membershipStatusID uuid.UUID) ([]*UserFarm, error)
	Update(ctx context.Context, f *Farm) (*Farm, error)
	Deactivate(ctx context.Context, id uuid.UUID, to Deactivation) error
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type Guard interface {
	Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error)
}

type Roles interface {
	GetRoleByName(ctx context.Context, name string) (*permission.Role, error)
}

type FarmService struct {
	repo     Repository
	statuses StatusRegistry
	guard    Guard
	roles    Roles
}

func NewFarmService(repo Repository, statuses StatusRegistry, guard Guard, roles Roles) *FarmService {
	return &FarmService{repo: repo, statuses: statuses, guard: guard, roles: roles}
}

func (s *FarmService) statusIDs(ctx context.Context, farmStatus, membershipStatus string) (uuid.UUID, uuid.UUID, error) {
	fs, err := s.statuses.Get(ctx, farmStatus, status.TypeFarm)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	ms, err := s.statuses.Get(ctx, membershipStatus, status.TypeUserRoleFarm)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return fs.ID, ms.ID, nil
}

func (s *FarmService) nameTaken(ctx context.Context, userID uuid.UUID, name string, except uuid.UUID) (bool, error) {
	farms, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, f := range farms {
		if f.ID != except && strings.EqualFold(f.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// Create registers a farm and makes the creator its Owner
func (s *FarmService) Create(ctx context.Context, userID uuid.UUID, req *CreateFarmRequest) (*Farm, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.AreaHectares <= 0 {
		return nil, ErrInvalidArea
	}

	taken, err := s.nameTaken(ctx, userID, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}

	activeFarm, activeMembership, err := s.statusIDs(ctx, status.Active, status.Active)
	if err != nil {
		return nil, err
	}

	owner, err := s.roles.GetRoleByName(ctx, permission.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrConfiguration, err)
	}

	f, err := s.repo.CreateWithOwner(ctx, name, req.AreaHectares, activeFarm, userID, owner.ID, activeMembership)
	if err != nil {
		return nil, err
	}

	slog.Info("Farm created", slog.String("farm_id", f.ID.String()), slog.String("owner_id", userID.String()))
	return f, nil
}

// List returns the Active farms where the user is an Active member
func (s *FarmService) List(ctx context.Context, userID uuid.UUID) ([]*UserFarm, error) {
	activeFarm, activeMembership, err := s.statusIDs(ctx, status.Active, status.Active)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, userID, activeFarm, activeMembership)
}

// GetActive returns the farm unless it is missing or soft-deleted
func (s *FarmService) GetActive(ctx context.Context, farmID uuid.UUID) (*Farm, error) {
	f, err := s.repo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if f.StatusName != status.Active {
		return nil, ErrFarmNotFound
	}
	return f, nil
}

func (s *FarmService) Get(ctx context.Context, userID, farmID uuid.UUID) (*Farm, error) {
	f, err := s.GetActive(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.ReadFarm); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FarmService) Update(ctx context.Context, userID, farmID uuid.UUID, req *UpdateFarmRequest) (*Farm, error) {
	f, err := s.GetActive(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.EditFarm); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		taken, err := s.nameTaken(ctx, userID, name, f.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateName
		}
		f.Name = name
	}
	if req.AreaHectares != nil {
		if *req.AreaHectares <= 0 {
			return nil, ErrInvalidArea
		}
		f.AreaHectares = *req.AreaHectares
	}

	return s.repo.Update(ctx, f)
}

// Delete soft-deletes the farm and deactivates all of its memberships
func (s *FarmService) Delete(ctx context.Context, userID, farmID uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, farmID)
	if err != nil {
		return err
	}
	if f.StatusName != status.Active {
		return ErrFarmInactive
	}
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.DeleteFarm); err != nil {
		return err
	}

	inactiveFarm, inactiveMembership, err := s.statusIDs(ctx, status.Inactive, status.Inactive)
	if err != nil {
		return err
	}
	pending, err := s.statuses.Get(ctx, status.InvitationPending, status.TypeInvitation)
	if err != nil {
		return err
	}
	cancelled, err := s.statuses.Get(ctx, status.InvitationCancelled, status.TypeInvitation)
	if err != nil {
		return err
	}

	err = s.repo.Deactivate(ctx, farmID, Deactivation{
		FarmStatusID:          inactiveFarm,
		MembershipStatusID:    inactiveMembership,
		PendingInvitationID:   pending.ID,
		CancelledInvitationID: cancelled.ID,
	})
	if err != nil {
		return err
	}

	slog.Info("Farm deleted", slog.String("farm_id", farmID.String()), slog.String("user_id", userID.String()))
	return nil
}
