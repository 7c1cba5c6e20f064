package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		taskDate time.Time
		want     string
	}{
		{"yesterday", today.AddDate(0, 0, -1), status.TaskDone},
		{"today", today, status.TaskDone},
		{"today_with_clock_time", today.Add(15 * time.Hour), status.TaskDone},
		{"tomorrow", today.AddDate(0, 0, 1), status.TaskPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, task.DeriveStatus(tt.taskDate, today))
		})
	}
}

func kinds(ns []notification.Notification) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)
	pruning := env.Store.WorkTypeID("Poda")

	tests := []struct {
		name    string
		userID  uuid.UUID
		req     task.CreateTaskRequest
		wantErr error
		status  string
	}{
		{
			name:   "future_task_is_pending",
			userID: fs.Owner.ID,
			req:    task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: pruning, CollaboratorUserID: fs.Operator.ID, TaskDate: "2024-06-25"},
			status: status.TaskPending,
		},
		{
			name:   "task_dated_today_is_done",
			userID: fs.Admin.ID,
			req:    task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: pruning, CollaboratorUserID: fs.Operator.ID, TaskDate: "2024-06-20"},
			status: status.TaskDone,
		},
		{
			name:    "operator_cannot_create",
			userID:  fs.Operator.ID,
			req:     task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: pruning, CollaboratorUserID: fs.Operator.ID, TaskDate: "2024-06-25"},
			wantErr: authorization.ErrMissingPermission,
		},
		{
			name:    "collaborator_outside_the_farm",
			userID:  fs.Owner.ID,
			req:     task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: pruning, CollaboratorUserID: fs.Outsider.ID, TaskDate: "2024-06-25"},
			wantErr: task.ErrInvalidCollaborator,
		},
		{
			name:    "unknown_work_type",
			userID:  fs.Owner.ID,
			req:     task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: uuid.New(), CollaboratorUserID: fs.Operator.ID, TaskDate: "2024-06-25"},
			wantErr: task.ErrWorkTypeNotFound,
		},
		{
			name:    "bad_date",
			userID:  fs.Owner.ID,
			req:     task.CreateTaskRequest{PlotID: fs.Plot.ID, CulturalWorkTypeID: pruning, CollaboratorUserID: fs.Operator.ID, TaskDate: "25-06-2024"},
			wantErr: task.ErrInvalidTaskDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			created, err := env.Task.Create(ctx, tt.userID, &req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, created.StatusName)
			assert.Equal(t, tt.userID, created.OwnerUserID)
			assert.Equal(t, "Poda", created.CulturalWorkTypeName)
		})
	}

	// only the pending assignment is pushed, both are recorded
	assert.Equal(t, []string{notification.KindTaskAssigned, notification.KindTaskAssigned}, kinds(env.Store.Notifications(fs.Operator.ID)))
	assert.Len(t, env.Pusher.Sent(), 1)
}

func TestTaskService_UpdateCompleteDelete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)
	second := env.RegisterActiveUser(t, "Elena", "elena@example.com")
	env.AddMember(t, fs.Farm.ID, second, "Operador de campo")

	created, err := env.Task.Create(ctx, fs.Owner.ID, &task.CreateTaskRequest{
		PlotID:             fs.Plot.ID,
		CulturalWorkTypeID: env.Store.WorkTypeID("Fertilización"),
		CollaboratorUserID: fs.Operator.ID,
		TaskDate:           "2024-06-25",
	})
	require.NoError(t, err)

	past := "2024-06-01"
	_, err = env.Task.Update(ctx, fs.Admin.ID, created.ID, &task.UpdateTaskRequest{TaskDate: &past})
	assert.ErrorIs(t, err, task.ErrNotTaskOwner)

	updated, err := env.Task.Update(ctx, fs.Owner.ID, created.ID, &task.UpdateTaskRequest{
		TaskDate:           &past,
		CollaboratorUserID: &second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, status.TaskDone, updated.StatusName)
	assert.Equal(t, second.ID, updated.CollaboratorUserID)
	assert.Contains(t, kinds(env.Store.Notifications(fs.Operator.ID)), notification.KindTaskUnassigned)
	assert.Contains(t, kinds(env.Store.Notifications(second.ID)), notification.KindTaskAssigned)

	future := "2024-07-01"
	updated, err = env.Task.Update(ctx, fs.Owner.ID, created.ID, &task.UpdateTaskRequest{TaskDate: &future})
	require.NoError(t, err)
	assert.Equal(t, status.TaskPending, updated.StatusName)

	_, err = env.Task.Complete(ctx, fs.Admin.ID, created.ID)
	assert.ErrorIs(t, err, task.ErrNotTaskParticipant)

	_, err = env.Task.Complete(ctx, fs.Outsider.ID, created.ID)
	assert.ErrorIs(t, err, authorization.ErrNotMember)

	done, err := env.Task.Complete(ctx, second.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, status.TaskDone, done.StatusName)
	assert.Contains(t, kinds(env.Store.Notifications(fs.Owner.ID)), notification.KindTaskCompleted)

	again, err := env.Task.Complete(ctx, second.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, status.TaskDone, again.StatusName)

	assert.ErrorIs(t, env.Task.Delete(ctx, fs.Admin.ID, created.ID), task.ErrNotTaskOwner)
	require.NoError(t, env.Task.Delete(ctx, fs.Owner.ID, created.ID))
	assert.ErrorIs(t, env.Task.Delete(ctx, fs.Owner.ID, created.ID), task.ErrTaskInactive)

	_, err = env.Task.Complete(ctx, second.ID, created.ID)
	assert.ErrorIs(t, err, task.ErrTaskInactive)

	_, err = env.Task.Update(ctx, fs.Owner.ID, created.ID, &task.UpdateTaskRequest{TaskDate: &future})
	assert.ErrorIs(t, err, task.ErrTaskInactive)

	list, err := env.Task.ListByPlot(ctx, fs.Operator.ID, fs.Plot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_ListAssigned(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	for _, d := range []string{"2024-06-28", "2024-06-22"} {
		_, err := env.Task.Create(ctx, fs.Owner.ID, &task.CreateTaskRequest{
			PlotID:             fs.Plot.ID,
			CulturalWorkTypeID: env.Store.WorkTypeID("Poda"),
			CollaboratorUserID: fs.Operator.ID,
			TaskDate:           d,
		})
		require.NoError(t, err)
	}

	mine, err := env.Task.ListAssigned(ctx, fs.Operator.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2024-06-22", mine[0].TaskDate.Format(time.DateOnly))

	require.NoError(t, env.Collaborator.Delete(ctx, fs.Owner.ID, fs.Farm.ID, fs.Operator.ID))

	mine, err = env.Task.ListAssigned(ctx, fs.Operator.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
