package membership

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the user_role_farm row binding a user to a farm through a
// role. At most one Active row exists per (user, farm).
type Membership struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	FarmID     uuid.UUID `json:"farm_id" db:"farm_id"`
	RoleID     uuid.UUID `json:"role_id" db:"role_id"`
	RoleName   string    `json:"role" db:"role_name"`
	StatusID   uuid.UUID `json:"status_id" db:"status_id"`
	StatusName string    `json:"status" db:"status_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Collaborator is an Active membership joined with its user
type Collaborator struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	RoleID   uuid.UUID `json:"role_id" db:"role_id"`
	RoleName string    `json:"role" db:"role_name"`
}
