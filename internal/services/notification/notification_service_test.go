package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) Push(ctx context.Context, msg notification.PushMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	userID, farmID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		push       bool
		pushErr    error
		wantPushes int
	}{
		{"stored_only", false, nil, 0},
		{"stored_and_pushed", true, nil, 1},
		{"push_failure_is_swallowed", true, errors.New("redis unavailable"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := len(env.Store.Notifications(userID))
			pushed := len(env.Pusher.Sent())
			env.Pusher.Err = tt.pushErr

			env.Notification.Notify(ctx, userID, farmID, notification.KindTaskReminder, "Mañana: Poda en Lote 1", tt.push)

			assert.Len(t, env.Store.Notifications(userID), stored+1)
			sent := env.Pusher.Sent()
			require.Len(t, sent, pushed+tt.wantPushes)
			if tt.wantPushes > 0 {
				msg := sent[len(sent)-1]
				assert.Equal(t, userID, msg.UserID)
				assert.Equal(t, farmID, msg.FarmID)
				assert.Equal(t, notification.KindTaskReminder, msg.Kind)
				assert.NotEqual(t, uuid.Nil, msg.NotificationID)
			}
		})
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	recipient, other := uuid.New(), uuid.New()

	env.Notification.Notify(ctx, recipient, uuid.New(), notification.KindInvitation, "Te invitaron a La Esperanza", false)

	list, err := env.Notification.List(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, status.NotificationUnread, list[0].StatusName)

	none, err := env.Notification.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.Notification.MarkRead(ctx, other, list[0].ID)
	assert.ErrorIs(t, err, notification.ErrNotRecipient)

	_, err = env.Notification.MarkRead(ctx, recipient, uuid.New())
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	for i := 0; i < 2; i++ {
		read, err := env.Notification.MarkRead(ctx, recipient, list[0].ID)
		require.NoError(t, err)
		assert.Equal(t, status.NotificationRead, read.StatusName)
	}

	list, err = env.Notification.List(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, status.NotificationRead, list[0].StatusName)
}

func TestNotificationService_PushOutlivesCaller(t *testing.T) {
	env := testutil.NewEnv()
	pusher := &mockPusher{}
	svc := notification.NewNotificationService(env.Store.NotificationsRepo(), env.Status, pusher, 50*time.Millisecond)

	userID := uuid.New()
	live := mock.MatchedBy(func(ctx context.Context) bool {
		_, bounded := ctx.Deadline()
		return bounded && ctx.Err() == nil
	})
	pusher.On("Push", live, mock.MatchedBy(func(msg notification.PushMessage) bool {
		return msg.UserID == userID && msg.Kind == notification.KindTaskAssigned
	})).Return(nil).Once()

	// the request that triggered the notification is already gone
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Notify(ctx, userID, uuid.New(), notification.KindTaskAssigned, "Nueva tarea: Poda", true)

	pusher.AssertExpectations(t)
	assert.Len(t, env.Store.Notifications(userID), 1)
}
