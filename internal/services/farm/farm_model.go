package farm

import (
	"time"

	"github.com/google/uuid"
)

type Farm struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	AreaHectares float64   `json:"area_hectares" db:"area_hectares"`
	StatusID     uuid.UUID `json:"status_id" db:"status_id"`
	StatusName   string    `json:"status" db:"status_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserFarm is a farm as seen by one of its members
type UserFarm struct {
	Farm
	RoleID   uuid.UUID `json:"role_id" db:"role_id"`
	RoleName string    `json:"role" db:"role_name"`
}

// Deactivation carries the statuses a farm deletion moves rows into.
// Pending invitations go from PendingInvitationID to CancelledInvitationID.
type Deactivation struct {
	FarmStatusID          uuid.UUID
	MembershipStatusID    uuid.UUID
	PendingInvitationID   uuid.UUID
	CancelledInvitationID uuid.UUID
}

type CreateFarmRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	AreaHectares float64 `json:"area_hectares" validate:"gt=0"`
}

type UpdateFarmRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	AreaHectares *float64 `json:"area_hectares,omitempty" validate:"omitempty,gt=0"`
}
