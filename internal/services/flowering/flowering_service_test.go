package flowering_test

import (
	"context"
	"testing"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFloweringService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)
	principal := env.Store.FloweringTypeID("Principal")
	mitaca := env.Store.FloweringTypeID("Mitaca")

	tests := []struct {
		name    string
		userID  uuid.UUID
		req     flowering.CreateFloweringRequest
		wantErr error
		status  string
	}{
		{
			name:   "active_without_harvest",
			userID: fs.Owner.ID,
			req:    flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: principal, FloweringDate: "2024-01-01"},
			status: status.FloweringActive,
		},
		{
			name:    "second_active_of_same_type",
			userID:  fs.Admin.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: principal, FloweringDate: "2024-02-01"},
			wantErr: flowering.ErrDuplicateActive,
		},
		{
			name:   "harvested_of_same_type_is_allowed",
			userID: fs.Admin.ID,
			req: flowering.CreateFloweringRequest{
				PlotID: fs.Plot.ID, FloweringTypeID: principal, FloweringDate: "2023-06-01", HarvestDate: strPtr("2023-12-20"),
			},
			status: status.FloweringHarvested,
		},
		{
			name:   "active_of_other_type",
			userID: fs.Admin.ID,
			req:    flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2024-04-10"},
			status: status.FloweringActive,
		},
		{
			name:    "future_flowering",
			userID:  fs.Owner.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2024-06-21"},
			wantErr: flowering.ErrFutureFlowering,
		},
		{
			name:    "too_old_to_be_active",
			userID:  fs.Owner.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2023-10-01"},
			wantErr: flowering.ErrHarvestTooLate,
		},
		{
			name:   "harvest_too_early",
			userID: fs.Owner.ID,
			req: flowering.CreateFloweringRequest{
				PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2024-01-01", HarvestDate: strPtr("2024-05-01"),
			},
			wantErr: flowering.ErrHarvestTooEarly,
		},
		{
			name:    "malformed_date",
			userID:  fs.Owner.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "01/01/2024"},
			wantErr: flowering.ErrInvalidDate,
		},
		{
			name:    "unknown_type",
			userID:  fs.Owner.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: uuid.New(), FloweringDate: "2024-01-01"},
			wantErr: flowering.ErrFloweringTypeNotFound,
		},
		{
			name:    "operator_lacks_permission",
			userID:  fs.Operator.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2024-01-01"},
			wantErr: authorization.ErrMissingPermission,
		},
		{
			name:    "outsider",
			userID:  fs.Outsider.ID,
			req:     flowering.CreateFloweringRequest{PlotID: fs.Plot.ID, FloweringTypeID: mitaca, FloweringDate: "2024-01-01"},
			wantErr: authorization.ErrNotMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			f, err := env.Flowering.Create(ctx, tt.userID, &req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, f.StatusName)
			assert.Equal(t, fs.Farm.ID, f.FarmID)
		})
	}
}

func TestFloweringService_Harvest(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	f, err := env.Flowering.Create(ctx, fs.Owner.ID, &flowering.CreateFloweringRequest{
		PlotID: fs.Plot.ID, FloweringTypeID: env.Store.FloweringTypeID("Principal"), FloweringDate: "2024-01-01",
	})
	require.NoError(t, err)

	_, err = env.Flowering.Harvest(ctx, fs.Operator.ID, f.ID, &flowering.HarvestRequest{HarvestDate: "2024-06-20"})
	assert.ErrorIs(t, err, authorization.ErrMissingPermission)

	_, err = env.Flowering.Harvest(ctx, fs.Admin.ID, f.ID, &flowering.HarvestRequest{HarvestDate: "2024-05-01"})
	assert.ErrorIs(t, err, flowering.ErrHarvestTooEarly)

	_, err = env.Flowering.Harvest(ctx, fs.Admin.ID, f.ID, &flowering.HarvestRequest{HarvestDate: "2024-06-21"})
	assert.ErrorIs(t, err, flowering.ErrFutureHarvest)

	harvested, err := env.Flowering.Harvest(ctx, fs.Admin.ID, f.ID, &flowering.HarvestRequest{HarvestDate: "2024-06-20"})
	require.NoError(t, err)
	assert.Equal(t, status.FloweringHarvested, harvested.StatusName)
	require.NotNil(t, harvested.HarvestDate)
	assert.Equal(t, "2024-06-20", harvested.HarvestDate.Format("2006-01-02"))

	_, err = env.Flowering.Harvest(ctx, fs.Admin.ID, f.ID, &flowering.HarvestRequest{HarvestDate: "2024-06-20"})
	assert.ErrorIs(t, err, flowering.ErrNotActive)
	assert.Equal(t, perrors.ErrCodeInvalidState, perrors.CodeOf(err))

	// the type is free for a new Active flowering once the old one is harvested
	_, err = env.Flowering.Create(ctx, fs.Owner.ID, &flowering.CreateFloweringRequest{
		PlotID: fs.Plot.ID, FloweringTypeID: env.Store.FloweringTypeID("Principal"), FloweringDate: "2024-06-01",
	})
	assert.NoError(t, err)
}

func TestFloweringService_DeleteAndRecommendations(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	f, err := env.Flowering.Create(ctx, fs.Owner.ID, &flowering.CreateFloweringRequest{
		PlotID: fs.Plot.ID, FloweringTypeID: env.Store.FloweringTypeID("Mitaca"), FloweringDate: "2024-04-01",
	})
	require.NoError(t, err)

	recs, err := env.Flowering.Recommendations(ctx, fs.Operator.ID, f.ID)
	require.NoError(t, err)
	assert.Len(t, recs.Tasks, 7)
	assert.True(t, recs.Tasks[0].Programar, "health check window opens nine weeks after flowering")

	_, err = env.Flowering.Recommendations(ctx, fs.Outsider.ID, f.ID)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	assert.ErrorIs(t, env.Flowering.Delete(ctx, fs.Operator.ID, f.ID), authorization.ErrMissingPermission)
	require.NoError(t, env.Flowering.Delete(ctx, fs.Admin.ID, f.ID))
	assert.ErrorIs(t, env.Flowering.Delete(ctx, fs.Admin.ID, f.ID), flowering.ErrFloweringInactive)

	_, err = env.Flowering.Recommendations(ctx, fs.Owner.ID, f.ID)
	assert.ErrorIs(t, err, flowering.ErrFloweringInactive)

	list, err := env.Flowering.ListByPlot(ctx, fs.Owner.ID, fs.Plot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
