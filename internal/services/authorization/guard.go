// Package authorization decides whether a user may exercise a named
// permission on a farm. Every mutating operation calls Authorize right
// before acting; results are never cached because roles and memberships can
// change between requests.
package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNotMember         = fmt.Errorf("%w: not a member of the farm", perrors.ErrUnauthorized)
	ErrMissingPermission = fmt.Errorf("%w: missing permission", perrors.ErrUnauthorized)
)

var tracer = otel.Tracer("github.com/curaious/finca/internal/services/authorization")

type Memberships interface {
	GetActive(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error)
}

type Permissions interface {
	HasPermission(ctx context.Context, roleID uuid.UUID, permissionName string) (bool, error)
}

type Guard struct {
	memberships Memberships
	permissions Permissions
}

func NewGuard(memberships Memberships, permissions Permissions) *Guard {
	return &Guard{memberships: memberships, permissions: permissions}
}

// Authorize grants by returning the user's Active membership on the farm
// when its role holds permissionName. Denials wrap perrors.ErrUnauthorized.
func (g *Guard) Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error) {
	ctx, span := tracer.Start(ctx, "authorization.Authorize")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("farm.id", farmID.String()),
		attribute.String("permission", permissionName),
	)

	m, err := g.memberships.GetActive(ctx, userID, farmID)
	if err != nil {
		if errors.Is(err, membership.ErrMembershipNotFound) {
			span.SetStatus(codes.Error, "not a member")
			return nil, ErrNotMember
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}

	ok, err := g.permissions.HasPermission(ctx, m.RoleID, permissionName)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to resolve permission: %w", err)
	}
	if !ok {
		span.SetStatus(codes.Error, "missing permission")
		return nil, fmt.Errorf("%w %q", ErrMissingPermission, permissionName)
	}

	span.SetAttributes(attribute.String("role", m.RoleName))
	return m, nil
}

// Member returns the user's Active membership without checking a
// permission. Used where any member may act, e.g. reading their own role.
func (g *Guard) Member(ctx context.Context, userID, farmID uuid.UUID) (*membership.Membership, error) {
	m, err := g.memberships.GetActive(ctx, userID, farmID)
	if err != nil {
		if errors.Is(err, membership.ErrMembershipNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return m, nil
}
