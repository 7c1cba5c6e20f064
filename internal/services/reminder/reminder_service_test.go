package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_SendReminders(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	env.SetToday(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))

	create := func(date string, owner, collaborator bool) *task.Task {
		created, err := env.Task.Create(ctx, fs.Owner.ID, &task.CreateTaskRequest{
			PlotID:               fs.Plot.ID,
			CulturalWorkTypeID:   env.Store.WorkTypeID("Control de arvenses"),
			CollaboratorUserID:   fs.Operator.ID,
			TaskDate:             date,
			ReminderOwner:        owner,
			ReminderCollaborator: collaborator,
		})
		require.NoError(t, err)
		require.Equal(t, status.TaskPending, created.StatusName)
		return created
	}

	elapsed := create("2024-06-19", true, true)
	dueToday := create("2024-06-20", true, true)
	quietToday := create("2024-06-20", false, false)
	upcoming := create("2024-06-25", true, true)

	env.SetToday(testutil.Today)
	pushedBefore := len(env.Pusher.Sent())

	res, err := env.Reminder.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Closed)
	assert.Equal(t, 2, res.Reminded)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, env.Pusher.Sent(), pushedBefore+2)

	for _, tc := range []struct {
		task *task.Task
		want string
	}{
		{elapsed, status.TaskDone},
		{dueToday, status.TaskDone},
		{quietToday, status.TaskDone},
		{upcoming, status.TaskPending},
	} {
		got, err := env.Task.Get(ctx, fs.Owner.ID, tc.task.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.StatusName, tc.task.TaskDate.Format(time.DateOnly))
	}

	var reminders int
	for _, n := range env.Store.Notifications(fs.Owner.ID) {
		if n.Kind == notification.KindTaskReminder {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)

	// today's tasks are closed by the first sweep, so a rerun is a no-op
	res, err = env.Reminder.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Closed)
	assert.Equal(t, 0, res.Reminded)
	assert.Len(t, env.Pusher.Sent(), pushedBefore+2)
}
