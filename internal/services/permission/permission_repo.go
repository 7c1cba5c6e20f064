package permission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrRoleNotFound = fmt.Errorf("%w: role", perrors.ErrNotFound)

// PermissionRepo handles roles, permissions, grants and the role hierarchy
type PermissionRepo struct {
	db *sqlx.DB
}

func NewPermissionRepo(db *sqlx.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// GetRoleByID retrieves a role by ID
func (r *PermissionRepo) GetRoleByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	query := `SELECT id, name, created_at FROM roles WHERE id = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &role, nil
}

// GetRoleByName retrieves a role by its exact name
func (r *PermissionRepo) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	query := `SELECT id, name, created_at FROM roles WHERE name = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &role, nil
}

// ListRoles returns every role
func (r *PermissionRepo) ListRoles(ctx context.Context) ([]*Role, error) {
	query := `SELECT id, name, created_at FROM roles ORDER BY name`

	var roles []*Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// RoleHasPermission reports whether a grant links the role to a permission
// with the given name, ignoring case.
func (r *PermissionRepo) RoleHasPermission(ctx context.Context, roleID uuid.UUID, permissionName string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1
            FROM role_permissions rp
            JOIN permissions p ON p.id = rp.permission_id
            WHERE rp.role_id = $1 AND lower(p.name) = lower($2)
        )
    `

	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, roleID, permissionName); err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return ok, nil
}

// ListRolePermissions returns the permissions granted to a role
func (r *PermissionRepo) ListRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*Permission, error) {
	query := `
        SELECT p.id, p.name, p.description
        FROM role_permissions rp
        JOIN permissions p ON p.id = rp.permission_id
        WHERE rp.role_id = $1
        ORDER BY p.name
    `

	var perms []*Permission
	if err := r.db.SelectContext(ctx, &perms, query, roleID); err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}

	return perms, nil
}

// CanAssign reports whether the hierarchy lets roleID assign targetRoleID
func (r *PermissionRepo) CanAssign(ctx context.Context, roleID, targetRoleID uuid.UUID) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM role_hierarchy
            WHERE role_id = $1 AND assignable_role_id = $2
        )
    `

	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, roleID, targetRoleID); err != nil {
		return false, fmt.Errorf("failed to check role hierarchy: %w", err)
	}

	return ok, nil
}

// ListAssignable returns the roles roleID may assign
func (r *PermissionRepo) ListAssignable(ctx context.Context, roleID uuid.UUID) ([]*Role, error) {
	query := `
        SELECT r.id, r.name, r.created_at
        FROM role_hierarchy h
        JOIN roles r ON r.id = h.assignable_role_id
        WHERE h.role_id = $1
        ORDER BY r.name
    `

	var roles []*Role
	if err := r.db.SelectContext(ctx, &roles, query, roleID); err != nil {
		return nil, fmt.Errorf("failed to list assignable roles: %w", err)
	}

	return roles, nil
}
