package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrTaskInactive        = fmt.Errorf("%w: task is inactive", perrors.ErrInvalidState)
	ErrNotTaskOwner        = fmt.Errorf("%w: only the task owner can do that", perrors.ErrUnauthorized)
	ErrNotTaskParticipant  = fmt.Errorf("%w: only the task owner or its collaborator can complete it", perrors.ErrUnauthorized)
	ErrInvalidCollaborator = fmt.Errorf("%w: collaborator is not an active member able to complete tasks", perrors.ErrValidation)
	ErrInvalidTaskDate     = fmt.Errorf("%w: task_date must be a date formatted as YYYY-MM-DD", perrors.ErrValidation)
)

type Repository interface {
	GetWorkType(ctx context.Context, id uuid.UUID) (*CulturalWorkType, error)
	ListWorkTypes(ctx context.Context) ([]*CulturalWorkType, error)
	Create(ctx context.Context, t *Task) (*Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, t *Task) (*Task, error)
	ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Task, error)
	ListAssigned(ctx context.Context, userID, excludeStatusID, membershipStatusID uuid.UUID) ([]*Task, error)
	ListByStatusUpTo(ctx context.Context, statusID uuid.UUID, date time.Time) ([]*Task, error)
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type Guard interface {
	Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error)
}

type Plots interface {
	GetActive(ctx context.Context, plotID uuid.UUID) (*plot.Plot, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool)
}

type TaskService struct {
	repo     Repository
	statuses StatusRegistry
	guard    Guard
	plots    Plots
	notifier Notifier
	clock    clock.Clock
	loc      *time.Location
}

func NewTaskService(repo Repository, statuses StatusRegistry, guard Guard, plots Plots, notifier Notifier, clk clock.Clock, loc *time.Location) *TaskService {
	return &TaskService{
		repo:     repo,
		statuses: statuses,
		guard:    guard,
		plots:    plots,
		notifier: notifier,
		clock:    clk,
		loc:      loc,
	}
}

// DeriveStatus maps a task date onto Pending (future) or Done (today or
// earlier).
func DeriveStatus(taskDate, today time.Time) string {
	if clock.Date(taskDate, time.UTC).After(today) {
		return status.TaskPending
	}
	return status.TaskDone
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidTaskDate
	}
	return d, nil
}

func (s *TaskService) today() time.Time {
	return clock.Today(s.clock, s.loc)
}

func (s *TaskService) status(ctx context.Context, name string) (*status.Status, error) {
	return s.statuses.Get(ctx, name, status.TypeTask)
}

// checkCollaborator makes sure the collaborator could complete the task
func (s *TaskService) checkCollaborator(ctx context.Context, collaboratorID, farmID uuid.UUID) error {
	_, err := s.guard.Authorize(ctx, collaboratorID, farmID, permission.CompleteCulturalWorkTask)
	if err != nil {
		if errors.Is(err, perrors.ErrUnauthorized) {
			return ErrInvalidCollaborator
		}
		return err
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req *CreateTaskRequest) (*Task, error) {
	p, err := s.plots.GetActive(ctx, req.PlotID)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.AddCulturalWorkTask); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetWorkType(ctx, req.CulturalWorkTypeID); err != nil {
		return nil, err
	}

	taskDate, err := parseDate(req.TaskDate)
	if err != nil {
		return nil, err
	}

	if err := s.checkCollaborator(ctx, req.CollaboratorUserID, p.FarmID); err != nil {
		return nil, err
	}

	st, err := s.status(ctx, DeriveStatus(taskDate, s.today()))
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, &Task{
		CulturalWorkTypeID:   req.CulturalWorkTypeID,
		PlotID:               p.ID,
		FarmID:               p.FarmID,
		StatusID:             st.ID,
		CollaboratorUserID:   req.CollaboratorUserID,
		OwnerUserID:          userID,
		TaskDate:             taskDate,
		ReminderOwner:        req.ReminderOwner,
		ReminderCollaborator: req.ReminderCollaborator,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Task created", slog.String("task_id", t.ID.String()), slog.String("status", t.StatusName))

	s.notifyAssigned(ctx, t)
	return t, nil
}

// Update edits an owned, non-deleted task. A date change re-derives the
// status; a collaborator change re-targets notifications after the write.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, req *UpdateTaskRequest) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.EditCulturalWorkTask); err != nil {
		return nil, err
	}
	if t.OwnerUserID != userID {
		return nil, ErrNotTaskOwner
	}
	if t.StatusName == status.Inactive {
		return nil, ErrTaskInactive
	}

	if req.CulturalWorkTypeID != nil {
		wt, err := s.repo.GetWorkType(ctx, *req.CulturalWorkTypeID)
		if err != nil {
			return nil, err
		}
		t.CulturalWorkTypeID = wt.ID
	}

	previousCollaborator := t.CollaboratorUserID
	if req.CollaboratorUserID != nil && *req.CollaboratorUserID != t.CollaboratorUserID {
		if err := s.checkCollaborator(ctx, *req.CollaboratorUserID, t.FarmID); err != nil {
			return nil, err
		}
		t.CollaboratorUserID = *req.CollaboratorUserID
	}

	if req.TaskDate != nil {
		taskDate, err := parseDate(*req.TaskDate)
		if err != nil {
			return nil, err
		}
		st, err := s.status(ctx, DeriveStatus(taskDate, s.today()))
		if err != nil {
			return nil, err
		}
		t.TaskDate = taskDate
		t.StatusID = st.ID
	}

	if req.ReminderOwner != nil {
		t.ReminderOwner = *req.ReminderOwner
	}
	if req.ReminderCollaborator != nil {
		t.ReminderCollaborator = *req.ReminderCollaborator
	}

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}

	if updated.CollaboratorUserID != previousCollaborator {
		s.notify(ctx, previousCollaborator, updated.FarmID, notification.KindTaskUnassigned,
			fmt.Sprintf("Ya no tienes asignada la tarea %s", updated.CulturalWorkTypeName), false)
		s.notifyAssigned(ctx, updated)
	}

	return updated, nil
}

// Complete marks the task Done. Completing a Done task succeeds without
// changes; an Inactive task cannot be completed.
func (s *TaskService) Complete(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.CompleteCulturalWorkTask); err != nil {
		return nil, err
	}
	if userID != t.OwnerUserID && userID != t.CollaboratorUserID {
		return nil, ErrNotTaskParticipant
	}

	switch t.StatusName {
	case status.Inactive:
		return nil, ErrTaskInactive
	case status.TaskDone:
		return t, nil
	}

	done, err := s.status(ctx, status.TaskDone)
	if err != nil {
		return nil, err
	}
	t.StatusID = done.ID

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}

	if userID != updated.OwnerUserID {
		s.notify(ctx, updated.OwnerUserID, updated.FarmID, notification.KindTaskCompleted,
			fmt.Sprintf("La tarea %s fue completada", updated.CulturalWorkTypeName), false)
	}

	return updated, nil
}

// Delete soft-deletes the task. Deleting an Inactive task is an error.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.DeleteCulturalWorkTask); err != nil {
		return err
	}
	if t.OwnerUserID != userID {
		return ErrNotTaskOwner
	}
	if t.StatusName == status.Inactive {
		return ErrTaskInactive
	}

	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return err
	}
	t.StatusID = inactive.ID

	if _, err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	slog.Info("Task deleted", slog.String("task_id", taskID.String()))
	return nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.ReadCulturalWorkTasks); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) ListByPlot(ctx context.Context, userID, plotID uuid.UUID) ([]*Task, error) {
	p, err := s.plots.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.ReadCulturalWorkTasks); err != nil {
		return nil, err
	}

	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPlot(ctx, plotID, inactive.ID)
}

// ListAssigned returns the caller's tasks on farms they still belong to
func (s *TaskService) ListAssigned(ctx context.Context, userID uuid.UUID) ([]*Task, error) {
	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return nil, err
	}
	activeMembership, err := s.statuses.Get(ctx, status.Active, status.TypeUserRoleFarm)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAssigned(ctx, userID, inactive.ID, activeMembership.ID)
}

func (s *TaskService) ListWorkTypes(ctx context.Context) ([]*CulturalWorkType, error) {
	return s.repo.ListWorkTypes(ctx)
}

// PendingDue returns the Pending tasks dated on or before date
func (s *TaskService) PendingDue(ctx context.Context, date time.Time) ([]*Task, error) {
	pending, err := s.status(ctx, status.TaskPending)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStatusUpTo(ctx, pending.ID, date)
}

// CloseElapsed moves a Pending task whose date has been reached to Done
func (s *TaskService) CloseElapsed(ctx context.Context, t *Task) (*Task, error) {
	done, err := s.status(ctx, status.TaskDone)
	if err != nil {
		return nil, err
	}
	t.StatusID = done.ID
	return s.repo.Update(ctx, t)
}

func (s *TaskService) notifyAssigned(ctx context.Context, t *Task) {
	s.notify(ctx, t.CollaboratorUserID, t.FarmID, notification.KindTaskAssigned,
		fmt.Sprintf("Se te asignó la tarea %s para el %s", t.CulturalWorkTypeName, t.TaskDate.Format(time.DateOnly)),
		t.StatusName == status.TaskPending)
}

func (s *TaskService) notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, farmID, kind, message, push)
}
