package permission_test

import (
	"context"
	"testing"

	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAssign(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := permission.NewPermissionService(store.Permissions())

	tests := []struct {
		acting string
		target string
		want   bool
	}{
		{permission.RoleOwner, permission.RoleAdministrator, true},
		{permission.RoleOwner, permission.RoleOperator, true},
		{permission.RoleOwner, permission.RoleOwner, false},
		{permission.RoleAdministrator, permission.RoleOperator, true},
		{permission.RoleAdministrator, permission.RoleAdministrator, false},
		{permission.RoleAdministrator, permission.RoleOwner, false},
		{permission.RoleOperator, permission.RoleOperator, false},
	}

	for _, tt := range tests {
		t.Run(tt.acting+"->"+tt.target, func(t *testing.T) {
			got, err := svc.CanAssign(ctx, store.RoleID(tt.acting), store.RoleID(tt.target))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.GetRoleByName(ctx, "Capataz")
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}

func TestAssignableRolesAndGrants(t *testing.T) {
	ctx := context.Background()
	svc := permission.NewPermissionService(testutil.NewStore().Permissions())

	owner, err := svc.GetRoleByName(ctx, permission.RoleOwner)
	require.NoError(t, err)

	roles, err := svc.AssignableRoles(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, permission.RoleAdministrator, roles[0].Name)
	assert.Equal(t, permission.RoleOperator, roles[1].Name)

	operator, err := svc.GetRoleByName(ctx, permission.RoleOperator)
	require.NoError(t, err)
	none, err := svc.AssignableRoles(ctx, operator.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	perms, err := svc.ListRolePermissions(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, perms, len(permission.SeedPermissions))

	opPerms, err := svc.ListRolePermissions(ctx, operator.ID)
	require.NoError(t, err)
	assert.Len(t, opPerms, 7)
}

func TestRequiredPermissions(t *testing.T) {
	p, ok := permission.RequiredAssignPermission(permission.RoleAdministrator)
	assert.True(t, ok)
	assert.Equal(t, permission.EditAdministratorFarm, p)

	_, ok = permission.RequiredAssignPermission(permission.RoleOwner)
	assert.False(t, ok)

	p, ok = permission.RequiredDeletePermission(permission.RoleOperator)
	assert.True(t, ok)
	assert.Equal(t, permission.DeleteOperatorFarm, p)

	_, ok = permission.RequiredDeletePermission(permission.RoleOwner)
	assert.False(t, ok)
}
