package task

import (
	"time"

	"github.com/google/uuid"
)

// CulturalWorkType is a catalog entry: pruning, fertilizing, weeding, ...
type CulturalWorkType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

// Task is a cultural work task assigned by its owner to a collaborator
type Task struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	CulturalWorkTypeID   uuid.UUID `json:"cultural_work_type_id" db:"cultural_work_type_id"`
	CulturalWorkTypeName string    `json:"cultural_work_type" db:"cultural_work_type_name"`
	PlotID               uuid.UUID `json:"plot_id" db:"plot_id"`
	FarmID               uuid.UUID `json:"farm_id" db:"farm_id"`
	StatusID             uuid.UUID `json:"status_id" db:"status_id"`
	StatusName           string    `json:"status" db:"status_name"`
	CollaboratorUserID   uuid.UUID `json:"collaborator_user_id" db:"collaborator_user_id"`
	OwnerUserID          uuid.UUID `json:"owner_user_id" db:"owner_user_id"`
	TaskDate             time.Time `json:"task_date" db:"task_date"`
	ReminderOwner        bool      `json:"reminder_owner" db:"reminder_owner"`
	ReminderCollaborator bool      `json:"reminder_collaborator" db:"reminder_collaborator"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

type CreateTaskRequest struct {
	PlotID               uuid.UUID `json:"plot_id" validate:"required"`
	CulturalWorkTypeID   uuid.UUID `json:"cultural_work_type_id" validate:"required"`
	CollaboratorUserID   uuid.UUID `json:"collaborator_user_id" validate:"required"`
	TaskDate             string    `json:"task_date" validate:"required,datetime=2006-01-02"`
	ReminderOwner        bool      `json:"reminder_owner"`
	ReminderCollaborator bool      `json:"reminder_collaborator"`
}

type UpdateTaskRequest struct {
	CulturalWorkTypeID   *uuid.UUID `json:"cultural_work_type_id,omitempty"`
	CollaboratorUserID   *uuid.UUID `json:"collaborator_user_id,omitempty"`
	TaskDate             *string    `json:"task_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReminderOwner        *bool      `json:"reminder_owner,omitempty"`
	ReminderCollaborator *bool      `json:"reminder_collaborator,omitempty"`
}

// SeedWorkTypes is the cultural work catalog as seeded, name → description
var SeedWorkTypes = map[string]string{
	"Poda":                "Pruning of coffee trees",
	"Fertilización":       "Fertilizer application",
	"Control de arvenses": "Weed control",
	"Control de plagas":   "Pest control",
	"Chequeo de salud":    "Plant health inspection",
	"Chequeo nutricional": "Nutritional status inspection",
	"Cosecha":             "Harvest",
	"Renovación":          "Plot renovation",
}
