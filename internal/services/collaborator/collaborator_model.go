package collaborator

import "github.com/google/uuid"

type EditRoleRequest struct {
	CollaboratorUserID uuid.UUID `json:"collaborator_user_id" validate:"required"`
	RoleID             uuid.UUID `json:"role_id" validate:"required"`
}
