package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var ErrNotRecipient = fmt.Errorf("%w: notification belongs to another user", perrors.ErrUnauthorized)

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type Pusher interface {
	Push(ctx context.Context, msg PushMessage) error
}

type NotificationService struct {
	repo        Repository
	statuses    StatusRegistry
	pusher      Pusher
	pushTimeout time.Duration
}

func NewNotificationService(repo Repository, statuses StatusRegistry, pusher Pusher, pushTimeout time.Duration) *NotificationService {
	if pushTimeout <= 0 {
		pushTimeout = 5 * time.Second
	}
	return &NotificationService{repo: repo, statuses: statuses, pusher: pusher, pushTimeout: pushTimeout}
}

// Notify records a notification and optionally pushes it. It runs after the
// triggering change has committed, so failures are logged and never returned.
func (s *NotificationService) Notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool) {
	unread, err := s.statuses.Get(ctx, status.NotificationUnread, status.TypeNotification)
	if err != nil {
		slog.Warn("Unable to resolve notification status", slog.Any("error", err))
		return
	}

	n, err := s.repo.Create(ctx, &Notification{
		Message:  message,
		UserID:   userID,
		FarmID:   farmID,
		Kind:     kind,
		StatusID: unread.ID,
	})
	if err != nil {
		slog.Warn("Unable to store notification", slog.String("user_id", userID.String()), slog.String("kind", kind), slog.Any("error", err))
		return
	}

	if !push || s.pusher == nil {
		return
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.pushTimeout)
	defer cancel()

	err = s.pusher.Push(pushCtx, PushMessage{
		NotificationID: n.ID,
		UserID:         userID,
		FarmID:         farmID,
		Kind:           kind,
		Message:        message,
	})
	if err != nil {
		slog.Warn("Unable to push notification", slog.String("notification_id", n.ID.String()), slog.Any("error", err))
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead flips a notification to read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotRecipient
	}

	read, err := s.statuses.Get(ctx, status.NotificationRead, status.TypeNotification)
	if err != nil {
		return nil, err
	}
	if n.StatusID == read.ID {
		return n, nil
	}

	if err := s.repo.UpdateStatus(ctx, n.ID, read.ID); err != nil {
		return nil, err
	}
	n.StatusID = read.ID
	n.StatusName = read.Name
	return n, nil
}
