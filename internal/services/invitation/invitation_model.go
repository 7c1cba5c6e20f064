package invitation

import (
	"time"

	"github.com/google/uuid"
)

// Invitation asks the owner of Email to join a farm with a suggested role
type Invitation struct {
	ID                uuid.UUID `json:"id" db:"id"`
	FarmID            uuid.UUID `json:"farm_id" db:"farm_id"`
	FarmName          string    `json:"farm_name" db:"farm_name"`
	Email             string    `json:"email" db:"email"`
	SuggestedRoleID   uuid.UUID `json:"suggested_role_id" db:"suggested_role_id"`
	SuggestedRoleName string    `json:"suggested_role" db:"suggested_role_name"`
	InviterUserID     uuid.UUID `json:"inviter_user_id" db:"inviter_user_id"`
	StatusID          uuid.UUID `json:"status_id" db:"status_id"`
	StatusName        string    `json:"status" db:"status_name"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

type CreateInvitationRequest struct {
	Email           string    `json:"email" validate:"required,email,max=255"`
	SuggestedRoleID uuid.UUID `json:"suggested_role_id" validate:"required"`
}
