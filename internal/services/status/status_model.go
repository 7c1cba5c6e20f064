package status

import "github.com/google/uuid"

// Status type names. Each lifecycle column points at a status of exactly
// one of these types.
const (
	TypeUser         = "User"
	TypeFarm         = "Farm"
	TypePlot         = "Plot"
	TypeUserRoleFarm = "user_role_farm"
	TypeTask         = "Task"
	TypeFlowering    = "Flowering"
	TypeTransaction  = "Transaction"
	TypeInvitation   = "Invitation"
	TypeNotification = "Notification"
	TypeDetection    = "Detection"
)

// Status names. Matching is exact, so these must be used verbatim.
const (
	Active     = "Activo"
	Inactive   = "Inactivo"
	Unverified = "No verificado"

	TaskPending = "Por hacer"
	TaskDone    = "Terminado"

	FloweringActive    = "Activa"
	FloweringHarvested = "Cosechada"
	FloweringInactive  = "Inactiva"

	InvitationPending   = "Pendiente"
	InvitationAccepted  = "Aceptada"
	InvitationRejected  = "Rechazada"
	InvitationCancelled = "Cancelada"

	NotificationUnread = "No leída"
	NotificationRead   = "Leída"
)

type StatusType struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type Status struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	StatusTypeID   uuid.UUID `json:"status_type_id" db:"status_type_id"`
	StatusTypeName string    `json:"status_type" db:"status_type_name"`
}

var seedNamespace = uuid.MustParse("6f1c1a52-3c1e-4d8e-9a57-7d0f4b6e2c11")

// SeedID is the fixed id of a seeded status. Partial unique indexes refer
// to statuses by these ids, so they must never change.
func SeedID(typeName, name string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(typeName+"/"+name))
}

// SeedTypeID is the fixed id of a seeded status type
func SeedTypeID(typeName string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(typeName))
}

// Seed is the full registry. Migrations insert it and the in-memory test
// store loads the same rows.
var Seed = map[string][]string{
	TypeUser:         {Active, Inactive, Unverified},
	TypeFarm:         {Active, Inactive},
	TypePlot:         {Active, Inactive},
	TypeUserRoleFarm: {Active, Inactive},
	TypeTask:         {TaskPending, TaskDone, Inactive},
	TypeFlowering:    {FloweringActive, FloweringHarvested, FloweringInactive},
	TypeTransaction:  {Active, Inactive},
	TypeInvitation:   {InvitationPending, InvitationAccepted, InvitationRejected, InvitationCancelled},
	TypeNotification: {NotificationUnread, NotificationRead},
	TypeDetection:    {Active, Inactive},
}
