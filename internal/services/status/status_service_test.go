package status_test

import (
	"context"
	"testing"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService_Get(t *testing.T) {
	ctx := context.Background()
	svc := status.NewStatusService(testutil.NewStore().Statuses())

	tests := []struct {
		name     string
		status   string
		typeName string
		wantErr  bool
	}{
		{"task_pending", status.TaskPending, status.TypeTask, false},
		{"flowering_harvested", status.FloweringHarvested, status.TypeFlowering, false},
		{"membership_active", status.Active, status.TypeUserRoleFarm, false},
		{"name_is_case_sensitive", "por hacer", status.TypeTask, true},
		{"wrong_type", status.FloweringHarvested, status.TypeTask, true},
		{"unknown_type", status.Active, "Harvest", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := svc.Get(ctx, tt.status, tt.typeName)
			if tt.wantErr {
				assert.ErrorIs(t, err, perrors.ErrConfiguration)
				assert.Equal(t, perrors.ErrCodeConfiguration, perrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, status.SeedID(tt.typeName, tt.status), st.ID)
			assert.Equal(t, tt.status, st.Name)
		})
	}
}

func TestStatusService_IDs(t *testing.T) {
	ctx := context.Background()
	svc := status.NewStatusService(testutil.NewStore().Statuses())

	ids, err := svc.IDs(ctx, status.TypeInvitation, status.InvitationPending, status.InvitationAccepted)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.NotEqual(t, ids[status.InvitationPending], ids[status.InvitationAccepted])

	_, err = svc.IDs(ctx, status.TypeInvitation, status.InvitationPending, status.TaskDone)
	assert.ErrorIs(t, err, perrors.ErrConfiguration)

	byID, err := svc.GetByID(ctx, ids[status.InvitationAccepted])
	require.NoError(t, err)
	assert.Equal(t, status.InvitationAccepted, byID.Name)
}
