package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/curaious/finca/internal/api/authenticator"
	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/collaborator"
	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/invitation"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/reminder"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/curaious/finca/internal/services/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Today is the date Env's clock starts at
var Today = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

// Env is every service wired over one Store, with recording fakes in place
// of redis, S3 and the classifier.
type Env struct {
	Store      *Store
	Clock      *clock.Fixed
	Tokens     *MemTokenStore
	Mailer     *RecordingMailer
	Pusher     *RecordingPusher
	Classifier *StubClassifier
	Images     *MemImageStore
	Sessions   *authenticator.Authenticator

	Status       *status.StatusService
	Permission   *permission.PermissionService
	Membership   *membership.MembershipService
	Guard        *authorization.Guard
	Notification *notification.NotificationService
	User         *user.UserService
	Farm         *farm.FarmService
	Plot         *plot.PlotService
	Collaborator *collaborator.CollaboratorService
	Invitation   *invitation.InvitationService
	Task         *task.TaskService
	Flowering    *flowering.FloweringService
	Transaction  *transaction.TransactionService
	Detection    *detection.DetectionService
	Reminder     *reminder.ReminderService
}

func NewEnv() *Env {
	e := &Env{
		Store:      NewStore(),
		Clock:      &clock.Fixed{T: Today.Add(12 * time.Hour)},
		Tokens:     NewMemTokenStore(),
		Mailer:     &RecordingMailer{},
		Pusher:     &RecordingPusher{},
		Classifier: &StubClassifier{Prediction: detection.Prediction{Label: "roya", Confidence: 0.92}},
		Images:     NewMemImageStore(),
	}
	e.Sessions = authenticator.NewWithSecret([]byte("test-secret"), time.Hour, e.Clock)

	loc := time.UTC
	e.Status = status.NewStatusService(e.Store.Statuses())
	e.Permission = permission.NewPermissionService(e.Store.Permissions())
	e.Membership = membership.NewMembershipService(e.Store.Memberships(), e.Status)
	e.Guard = authorization.NewGuard(e.Membership, e.Permission)
	e.Notification = notification.NewNotificationService(e.Store.NotificationsRepo(), e.Status, e.Pusher, time.Second)
	e.User = user.NewUserService(e.Store.Users(), e.Status, e.Tokens, e.Sessions, e.Mailer, user.Options{})
	e.Farm = farm.NewFarmService(e.Store.Farms(), e.Status, e.Guard, e.Permission)
	e.Plot = plot.NewPlotService(e.Store.Plots(), e.Status, e.Guard)
	e.Collaborator = collaborator.NewCollaboratorService(e.Guard, e.Membership, e.Permission, e.Notification)
	e.Invitation = invitation.NewInvitationService(e.Store.Invitations(), e.Status, e.Guard, e.Permission, e.Membership, e.Farm, e.User, e.Notification)
	e.Task = task.NewTaskService(e.Store.Tasks(), e.Status, e.Guard, e.Plot, e.Notification, e.Clock, loc)
	e.Flowering = flowering.NewFloweringService(e.Store.Flowerings(), e.Status, e.Guard, e.Plot, e.Clock, loc)
	e.Transaction = transaction.NewTransactionService(e.Store.Transactions(), e.Status, e.Guard, e.Plot)
	e.Detection = detection.NewDetectionService(e.Store.Detections(), e.Status, e.Guard, e.Plot, e.Classifier, e.Images)
	e.Reminder = reminder.NewReminderService(e.Task, e.Notification, e.Clock, loc)
	return e
}

// Services exposes the wired services the way the API consumes them. DB and
// Redis stay nil, so health checks cannot be served from it.
func (e *Env) Services() *services.Services {
	return &services.Services{
		Status:       e.Status,
		Permission:   e.Permission,
		Membership:   e.Membership,
		Guard:        e.Guard,
		Notification: e.Notification,
		User:         e.User,
		Farm:         e.Farm,
		Plot:         e.Plot,
		Collaborator: e.Collaborator,
		Invitation:   e.Invitation,
		Task:         e.Task,
		Flowering:    e.Flowering,
		Transaction:  e.Transaction,
		Detection:    e.Detection,
		Reminder:     e.Reminder,
	}
}

// SetToday moves the clock to noon of the given date
func (e *Env) SetToday(date time.Time) {
	e.Clock.T = clock.Date(date, time.UTC).Add(12 * time.Hour)
}

// RegisterActiveUser registers and verifies a user
func (e *Env) RegisterActiveUser(t testing.TB, name, email string) *user.User {
	t.Helper()
	ctx := context.Background()

	_, token, err := e.User.Register(ctx, &user.RegisterRequest{Name: name, Email: email, Password: "cafetal-2024"})
	require.NoError(t, err)

	u, err := e.User.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, status.Active, u.StatusName)
	return u
}

// CreateFarm creates a farm owned by owner
func (e *Env) CreateFarm(t testing.TB, owner *user.User, name string) *farm.Farm {
	t.Helper()
	f, err := e.Farm.Create(context.Background(), owner.ID, &farm.CreateFarmRequest{Name: name, AreaHectares: 12.5})
	require.NoError(t, err)
	return f
}

// AddMember makes u an Active member of the farm with the named role
func (e *Env) AddMember(t testing.TB, farmID uuid.UUID, u *user.User, roleName string) *membership.Membership {
	t.Helper()
	m, err := e.Membership.Activate(context.Background(), u.ID, farmID, e.Store.RoleID(roleName))
	require.NoError(t, err)
	return m
}

// CreatePlot creates a plot on the farm as userID
func (e *Env) CreatePlot(t testing.TB, userID, farmID uuid.UUID, name string) *plot.Plot {
	t.Helper()
	p, err := e.Plot.Create(context.Background(), userID, farmID, &plot.CreatePlotRequest{
		Name:          name,
		CoffeeVariety: "Castillo",
		AreaHectares:  2,
	})
	require.NoError(t, err)
	return p
}

// Farmstead is a farm with an owner, an administrator, an operator and one
// plot, the starting point of most service tests.
type Farmstead struct {
	Owner    *user.User
	Admin    *user.User
	Operator *user.User
	Outsider *user.User
	Farm     *farm.Farm
	Plot     *plot.Plot
}

func (e *Env) NewFarmstead(t testing.TB) *Farmstead {
	t.Helper()
	fs := &Farmstead{
		Owner:    e.RegisterActiveUser(t, "Ana", "ana@example.com"),
		Admin:    e.RegisterActiveUser(t, "Beto", "beto@example.com"),
		Operator: e.RegisterActiveUser(t, "Carla", "carla@example.com"),
		Outsider: e.RegisterActiveUser(t, "Dario", "dario@example.com"),
	}
	fs.Farm = e.CreateFarm(t, fs.Owner, "La Esperanza")
	e.AddMember(t, fs.Farm.ID, fs.Admin, permission.RoleAdministrator)
	e.AddMember(t, fs.Farm.ID, fs.Operator, permission.RoleOperator)
	fs.Plot = e.CreatePlot(t, fs.Owner.ID, fs.Farm.ID, "Lote 1")
	return fs
}
