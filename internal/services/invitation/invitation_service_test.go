package invitation_test

import (
	"context"
	"testing"

	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/invitation"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	adminRole := env.Store.RoleID(permission.RoleAdministrator)
	operatorRole := env.Store.RoleID(permission.RoleOperator)
	ownerRole := env.Store.RoleID(permission.RoleOwner)

	tests := []struct {
		name    string
		userID  uuid.UUID
		email   string
		roleID  uuid.UUID
		wantErr error
	}{
		{"operator_cannot_invite", fs.Operator.ID, "nuevo@example.com", operatorRole, authorization.ErrMissingPermission},
		{"outsider_cannot_invite", fs.Outsider.ID, "nuevo@example.com", operatorRole, authorization.ErrNotMember},
		{"admin_cannot_invite_admin", fs.Admin.ID, "nuevo@example.com", adminRole, invitation.ErrRoleNotAllowed},
		{"owner_role_is_never_offered", fs.Owner.ID, "nuevo@example.com", ownerRole, invitation.ErrRoleNotAllowed},
		{"unknown_role", fs.Owner.ID, "nuevo@example.com", uuid.New(), permission.ErrRoleNotFound},
		{"already_member", fs.Owner.ID, "Carla@Example.com", operatorRole, membership.ErrAlreadyMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Invitation.Create(ctx, tt.userID, fs.Farm.ID, &invitation.CreateInvitationRequest{
				Email:           tt.email,
				SuggestedRoleID: tt.roleID,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	inv, err := env.Invitation.Create(ctx, fs.Admin.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           "  Dario@Example.com ",
		SuggestedRoleID: operatorRole,
	})
	require.NoError(t, err)
	assert.Equal(t, "dario@example.com", inv.Email)
	assert.Equal(t, status.InvitationPending, inv.StatusName)
	assert.Equal(t, permission.RoleOperator, inv.SuggestedRoleName)
	assert.Equal(t, "La Esperanza", inv.FarmName)

	notes := env.Store.Notifications(fs.Outsider.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, notification.KindInvitation, notes[0].Kind)

	_, err = env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           "dario@example.com",
		SuggestedRoleID: adminRole,
	})
	assert.ErrorIs(t, err, invitation.ErrPendingInvitation)

	// unregistered emails can be invited, nobody is notified yet
	_, err = env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           "pendiente@example.com",
		SuggestedRoleID: adminRole,
	})
	require.NoError(t, err)
}

func TestInvitationService_AcceptReject(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)
	operatorRole := env.Store.RoleID(permission.RoleOperator)

	inv, err := env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           fs.Outsider.Email,
		SuggestedRoleID: operatorRole,
	})
	require.NoError(t, err)

	mine, err := env.Invitation.ListMine(ctx, fs.Outsider.Email)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, inv.ID, mine[0].ID)

	_, err = env.Invitation.Accept(ctx, fs.Admin.ID, fs.Admin.Email, inv.ID)
	assert.ErrorIs(t, err, invitation.ErrNotInvitee)

	_, err = env.Invitation.Accept(ctx, fs.Outsider.ID, fs.Outsider.Email, uuid.New())
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)

	m, err := env.Invitation.Accept(ctx, fs.Outsider.ID, fs.Outsider.Email, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, operatorRole, m.RoleID)

	_, err = env.Guard.Authorize(ctx, fs.Outsider.ID, fs.Farm.ID, permission.ReadPlots)
	require.NoError(t, err)

	var accepted int
	for _, n := range env.Store.Notifications(fs.Owner.ID) {
		if n.Kind == notification.KindInvitationAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)

	_, err = env.Invitation.Accept(ctx, fs.Outsider.ID, fs.Outsider.Email, inv.ID)
	assert.ErrorIs(t, err, invitation.ErrNotPending)
	assert.ErrorIs(t, env.Invitation.Reject(ctx, fs.Outsider.Email, inv.ID), invitation.ErrNotPending)

	mine, err = env.Invitation.ListMine(ctx, fs.Outsider.Email)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// a rejected invitation frees the email for a new one
	other := env.RegisterActiveUser(t, "Elena", "elena@example.com")
	first, err := env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           other.Email,
		SuggestedRoleID: operatorRole,
	})
	require.NoError(t, err)
	require.NoError(t, env.Invitation.Reject(ctx, other.Email, first.ID))

	_, err = env.Guard.Member(ctx, other.ID, fs.Farm.ID)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	_, err = env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           other.Email,
		SuggestedRoleID: operatorRole,
	})
	require.NoError(t, err)
}

func TestInvitationService_AcceptReactivatesRemovedCollaborator(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	require.NoError(t, env.Collaborator.Delete(ctx, fs.Owner.ID, fs.Farm.ID, fs.Admin.ID))

	inv, err := env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           fs.Admin.Email,
		SuggestedRoleID: env.Store.RoleID(permission.RoleOperator),
	})
	require.NoError(t, err)

	m, err := env.Invitation.Accept(ctx, fs.Admin.ID, fs.Admin.Email, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Active, m.StatusName)

	got, err := env.Guard.Member(ctx, fs.Admin.ID, fs.Farm.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, permission.RoleOperator, got.RoleName)
}

func TestInvitationService_FarmDeletionClosesInvitations(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	inv, err := env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           fs.Outsider.Email,
		SuggestedRoleID: env.Store.RoleID(permission.RoleAdministrator),
	})
	require.NoError(t, err)

	require.NoError(t, env.Farm.Delete(ctx, fs.Owner.ID, fs.Farm.ID))

	mine, err := env.Invitation.ListMine(ctx, fs.Outsider.Email)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = env.Invitation.Accept(ctx, fs.Outsider.ID, fs.Outsider.Email, inv.ID)
	assert.ErrorIs(t, err, invitation.ErrNotPending)

	_, err = env.Guard.Authorize(ctx, fs.Outsider.ID, fs.Farm.ID, permission.AddFlowering)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	_, err = env.Flowering.Create(ctx, fs.Outsider.ID, &flowering.CreateFloweringRequest{
		PlotID:          fs.Plot.ID,
		FloweringTypeID: env.Store.FloweringTypeID("Principal"),
		FloweringDate:   "2024-01-01",
	})
	assert.ErrorIs(t, err, authorization.ErrNotMember)
}

func TestInvitationService_AcceptRequiresActiveFarm(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	inv, err := env.Invitation.Create(ctx, fs.Owner.ID, fs.Farm.ID, &invitation.CreateInvitationRequest{
		Email:           fs.Outsider.Email,
		SuggestedRoleID: env.Store.RoleID(permission.RoleOperator),
	})
	require.NoError(t, err)

	// farm gone while the invitation row was left pending
	ids, err := env.Status.IDs(ctx, status.TypeFarm, status.Inactive)
	require.NoError(t, err)
	memberIDs, err := env.Status.IDs(ctx, status.TypeUserRoleFarm, status.Inactive)
	require.NoError(t, err)
	require.NoError(t, env.Store.Farms().Deactivate(ctx, fs.Farm.ID, farm.Deactivation{
		FarmStatusID:       ids[status.Inactive],
		MembershipStatusID: memberIDs[status.Inactive],
	}))

	_, err = env.Invitation.Accept(ctx, fs.Outsider.ID, fs.Outsider.Email, inv.ID)
	assert.ErrorIs(t, err, farm.ErrFarmNotFound)

	_, err = env.Guard.Member(ctx, fs.Outsider.ID, fs.Farm.ID)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	mine, err := env.Invitation.ListMine(ctx, fs.Outsider.Email)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
