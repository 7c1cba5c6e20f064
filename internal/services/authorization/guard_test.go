package authorization_test

import (
	"context"
	"testing"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Authorize(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	tests := []struct {
		name       string
		userID     uuid.UUID
		farmID     uuid.UUID
		permission string
		wantErr    error
		wantRole   string
	}{
		{"owner_deletes_farm", fs.Owner.ID, fs.Farm.ID, permission.DeleteFarm, nil, permission.RoleOwner},
		{"admin_cannot_delete_farm", fs.Admin.ID, fs.Farm.ID, permission.DeleteFarm, authorization.ErrMissingPermission, ""},
		{"admin_edits_plots", fs.Admin.ID, fs.Farm.ID, permission.EditPlot, nil, permission.RoleAdministrator},
		{"operator_reads_plots", fs.Operator.ID, fs.Farm.ID, permission.ReadPlots, nil, permission.RoleOperator},
		{"operator_cannot_read_transactions", fs.Operator.ID, fs.Farm.ID, permission.ReadTransactions, authorization.ErrMissingPermission, ""},
		{"permission_names_ignore_case", fs.Operator.ID, fs.Farm.ID, "READ_FARM", nil, permission.RoleOperator},
		{"unknown_permission", fs.Owner.ID, fs.Farm.ID, "launch_rockets", authorization.ErrMissingPermission, ""},
		{"outsider", fs.Outsider.ID, fs.Farm.ID, permission.ReadFarm, authorization.ErrNotMember, ""},
		{"unknown_farm", fs.Owner.ID, uuid.New(), permission.ReadFarm, authorization.ErrNotMember, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := env.Guard.Authorize(ctx, tt.userID, tt.farmID, tt.permission)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, perrors.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, m.RoleName)
		})
	}
}

func TestGuard_InactiveMembershipIsDenied(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	m, err := env.Guard.Member(ctx, fs.Operator.ID, fs.Farm.ID)
	require.NoError(t, err)

	_, err = env.Membership.Deactivate(ctx, m)
	require.NoError(t, err)

	_, err = env.Guard.Member(ctx, fs.Operator.ID, fs.Farm.ID)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	_, err = env.Guard.Authorize(ctx, fs.Operator.ID, fs.Farm.ID, permission.ReadFarm)
	assert.ErrorIs(t, err, authorization.ErrNotMember)
}
