package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	GetRoleByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	RoleHasPermission(ctx context.Context, roleID uuid.UUID, permissionName string) (bool, error)
	ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*Permission, error)
	CanAssign(ctx context.Context, roleID, targetRoleID uuid.UUID) (bool, error)
	ListAssignable(ctx context.Context, roleID uuid.UUID) ([]*Role, error)
}

// PermissionService exposes the permission model: roles, grants and the
// role hierarchy.
type PermissionService struct {
	repo Repository
}

func NewPermissionService(repo Repository) *PermissionService {
	return &PermissionService{repo: repo}
}

func (s *PermissionService) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	role, err := s.repo.GetRoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

func (s *PermissionService) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, fmt.Errorf("%w %q", ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

func (s *PermissionService) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.repo.ListRoles(ctx)
}

// HasPermission reports whether the role holds the named permission
func (s *PermissionService) HasPermission(ctx context.Context, roleID uuid.UUID, permissionName string) (bool, error) {
	return s.repo.RoleHasPermission(ctx, roleID, permissionName)
}

func (s *PermissionService) ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*Permission, error) {
	return s.repo.ListRolePermissions(ctx, roleID)
}

// CanAssign reports whether actingRoleID may assign (or revoke) targetRoleID
func (s *PermissionService) CanAssign(ctx context.Context, actingRoleID, targetRoleID uuid.UUID) (bool, error) {
	return s.repo.CanAssign(ctx, actingRoleID, targetRoleID)
}

// AssignableRoles lists the roles the given role may hand out
func (s *PermissionService) AssignableRoles(ctx context.Context, roleID uuid.UUID) ([]*Role, error) {
	return s.repo.ListAssignable(ctx, roleID)
}

// RequiredAssignPermission returns the permission needed to assign roleName
func RequiredAssignPermission(roleName string) (string, bool) {
	p, ok := AssignPermission[roleName]
	return p, ok
}

// RequiredDeletePermission returns the permission needed to remove a
// collaborator holding roleName
func RequiredDeletePermission(roleName string) (string, bool) {
	p, ok := DeletePermission[roleName]
	return p, ok
}
