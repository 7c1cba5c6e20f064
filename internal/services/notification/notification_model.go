package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds
const (
	KindTaskAssigned        = "task_assigned"
	KindTaskUnassigned      = "task_unassigned"
	KindTaskCompleted       = "task_completed"
	KindTaskReminder        = "task_reminder"
	KindInvitation          = "invitation"
	KindInvitationAccepted  = "invitation_accepted"
	KindRoleChanged         = "role_changed"
	KindCollaboratorRemoved = "collaborator_removed"
)

type Notification struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Message    string    `json:"message" db:"message"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	FarmID     uuid.UUID `json:"farm_id" db:"farm_id"`
	Kind       string    `json:"kind" db:"kind"`
	StatusID   uuid.UUID `json:"status_id" db:"status_id"`
	StatusName string    `json:"status" db:"status_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PushMessage is what the push worker receives on the notification channel
type PushMessage struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	FarmID         uuid.UUID `json:"farm_id"`
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
}
