package permission

import (
	"time"

	"github.com/google/uuid"
)

// Role names as seeded.
const (
	RoleOwner         = "Propietario"
	RoleAdministrator = "Administrador de finca"
	RoleOperator      = "Operador de campo"
)

// Permission names as seeded. Lookups compare them case-insensitively.
const (
	ReadFarm   = "read_farm"
	EditFarm   = "edit_farm"
	DeleteFarm = "delete_farm"

	ReadPlots  = "read_plots"
	AddPlot    = "add_plot"
	EditPlot   = "edit_plot"
	DeletePlot = "delete_plot"

	ReadCollaborators       = "read_collaborators"
	AddCollaborator         = "add_collaborator"
	EditAdministratorFarm   = "edit_administrador_farm"
	EditOperatorFarm        = "edit_operador_farm"
	DeleteAdministratorFarm = "delete_administrador_farm"
	DeleteOperatorFarm      = "delete_operador_farm"

	ReadCulturalWorkTasks    = "read_cultural_work_tasks"
	AddCulturalWorkTask      = "add_cultural_work_task"
	EditCulturalWorkTask     = "edit_cultural_work_task"
	CompleteCulturalWorkTask = "complete_cultural_work_task"
	DeleteCulturalWorkTask   = "delete_cultural_work_task"

	ReadFlowering   = "read_flowering"
	AddFlowering    = "add_flowering"
	EditFlowering   = "edit_flowering"
	DeleteFlowering = "delete_flowering"

	ReadTransactions  = "read_transactions"
	AddTransaction    = "add_transaction"
	EditTransaction   = "edit_transaction"
	DeleteTransaction = "delete_transaction"

	ReadHealthChecks  = "read_health_checks"
	AddHealthCheck    = "add_health_check"
	DeleteHealthCheck = "delete_health_check"
)

type Role struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

// AssignPermission is the permission the acting user needs, on top of the
// role hierarchy, to move a collaborator into the keyed role.
var AssignPermission = map[string]string{
	RoleAdministrator: EditAdministratorFarm,
	RoleOperator:      EditOperatorFarm,
}

// DeletePermission is the permission needed to remove a collaborator who
// currently holds the keyed role.
var DeletePermission = map[string]string{
	RoleAdministrator: DeleteAdministratorFarm,
	RoleOperator:      DeleteOperatorFarm,
}

// SeedHierarchy lists, per role, the roles it may assign or revoke.
var SeedHierarchy = map[string][]string{
	RoleOwner:         {RoleAdministrator, RoleOperator},
	RoleAdministrator: {RoleOperator},
	RoleOperator:      {},
}

var operatorGrants = []string{
	ReadFarm,
	ReadPlots,
	ReadCulturalWorkTasks,
	CompleteCulturalWorkTask,
	ReadFlowering,
	ReadHealthChecks,
	AddHealthCheck,
}

var administratorGrants = append(append([]string{}, operatorGrants...),
	EditFarm,
	AddPlot, EditPlot, DeletePlot,
	ReadCollaborators, AddCollaborator, EditOperatorFarm, DeleteOperatorFarm,
	AddCulturalWorkTask, EditCulturalWorkTask, DeleteCulturalWorkTask,
	AddFlowering, EditFlowering, DeleteFlowering,
	ReadTransactions, AddTransaction, EditTransaction, DeleteTransaction,
	DeleteHealthCheck,
)

var ownerGrants = append(append([]string{}, administratorGrants...),
	DeleteFarm,
	EditAdministratorFarm, DeleteAdministratorFarm,
)

// SeedGrants is the role → permission grant table as seeded.
var SeedGrants = map[string][]string{
	RoleOwner:         ownerGrants,
	RoleAdministrator: administratorGrants,
	RoleOperator:      operatorGrants,
}

// SeedPermissions describes every permission name.
var SeedPermissions = map[string]string{
	ReadFarm:                 "View farm details",
	EditFarm:                 "Edit farm details",
	DeleteFarm:               "Delete the farm",
	ReadPlots:                "View plots",
	AddPlot:                  "Create plots",
	EditPlot:                 "Edit plots",
	DeletePlot:               "Delete plots",
	ReadCollaborators:        "View collaborators",
	AddCollaborator:          "Invite collaborators",
	EditAdministratorFarm:    "Assign the farm administrator role",
	EditOperatorFarm:         "Assign the field operator role",
	DeleteAdministratorFarm:  "Remove farm administrators",
	DeleteOperatorFarm:       "Remove field operators",
	ReadCulturalWorkTasks:    "View cultural work tasks",
	AddCulturalWorkTask:      "Create cultural work tasks",
	EditCulturalWorkTask:     "Edit cultural work tasks",
	CompleteCulturalWorkTask: "Complete cultural work tasks",
	DeleteCulturalWorkTask:   "Delete cultural work tasks",
	ReadFlowering:            "View flowerings",
	AddFlowering:             "Register flowerings",
	EditFlowering:            "Record harvests",
	DeleteFlowering:          "Delete flowerings",
	ReadTransactions:         "View transactions",
	AddTransaction:           "Register transactions",
	EditTransaction:          "Edit transactions",
	DeleteTransaction:        "Delete transactions",
	ReadHealthChecks:         "View plant-health detections",
	AddHealthCheck:           "Upload plant-health images",
	DeleteHealthCheck:        "Delete plant-health detections",
}
