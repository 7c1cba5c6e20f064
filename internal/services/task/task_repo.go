package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTaskNotFound     = fmt.Errorf("%w: task", perrors.ErrNotFound)
	ErrWorkTypeNotFound = fmt.Errorf("%w: cultural work type", perrors.ErrNotFound)
)

const taskColumns = `
    t.id, t.cultural_work_type_id, cwt.name AS cultural_work_type_name, t.plot_id, p.farm_id,
    t.status_id, s.name AS status_name, t.collaborator_user_id, t.owner_user_id, t.task_date,
    t.reminder_owner, t.reminder_collaborator, t.created_at, t.updated_at
`

const taskJoins = `
    FROM cultural_work_tasks t
    JOIN cultural_work_types cwt ON cwt.id = t.cultural_work_type_id
    JOIN plots p ON p.id = t.plot_id
    JOIN statuses s ON s.id = t.status_id
`

type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) GetWorkType(ctx context.Context, id uuid.UUID) (*CulturalWorkType, error) {
	var wt CulturalWorkType
	err := r.db.GetContext(ctx, &wt, `SELECT id, name, description FROM cultural_work_types WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkTypeNotFound
		}
		return nil, fmt.Errorf("failed to get cultural work type: %w", err)
	}
	return &wt, nil
}

func (r *TaskRepo) ListWorkTypes(ctx context.Context) ([]*CulturalWorkType, error) {
	var types []*CulturalWorkType
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name, description FROM cultural_work_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list cultural work types: %w", err)
	}
	return types, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *Task) (*Task, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO cultural_work_tasks (
            cultural_work_type_id, plot_id, status_id, collaborator_user_id, owner_user_id,
            task_date, reminder_owner, reminder_collaborator
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, t.CulturalWorkTypeID, t.PlotID, t.StatusID, t.CollaboratorUserID, t.OwnerUserID,
		t.TaskDate.Format(time.DateOnly), t.ReminderOwner, t.ReminderCollaborator)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	if err := r.db.GetContext(ctx, &t, `SELECT `+taskColumns+taskJoins+` WHERE t.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// Update writes every mutable column of the task in a single statement
func (r *TaskRepo) Update(ctx context.Context, t *Task) (*Task, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE cultural_work_tasks
        SET cultural_work_type_id = $1, status_id = $2, collaborator_user_id = $3, task_date = $4,
            reminder_owner = $5, reminder_collaborator = $6, updated_at = NOW()
        WHERE id = $7
    `, t.CulturalWorkTypeID, t.StatusID, t.CollaboratorUserID, t.TaskDate.Format(time.DateOnly),
		t.ReminderOwner, t.ReminderCollaborator, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrTaskNotFound
	}
	return r.GetByID(ctx, t.ID)
}

// ListByPlot returns the plot's tasks except those with excludeStatusID
func (r *TaskRepo) ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	query := `SELECT ` + taskColumns + taskJoins + `
        WHERE t.plot_id = $1 AND t.status_id <> $2
        ORDER BY t.task_date DESC
    `
	if err := r.db.SelectContext(ctx, &tasks, query, plotID, excludeStatusID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListAssigned returns the tasks assigned to the user on farms where the
// user still holds a membership with membershipStatusID
func (r *TaskRepo) ListAssigned(ctx context.Context, userID, excludeStatusID, membershipStatusID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	query := `SELECT ` + taskColumns + taskJoins + `
        JOIN user_role_farm urf ON urf.farm_id = p.farm_id AND urf.user_id = t.collaborator_user_id
        WHERE t.collaborator_user_id = $1 AND t.status_id <> $2 AND urf.status_id = $3
        ORDER BY t.task_date
    `
	if err := r.db.SelectContext(ctx, &tasks, query, userID, excludeStatusID, membershipStatusID); err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// ListByStatusUpTo returns tasks with statusID dated on or before date
func (r *TaskRepo) ListByStatusUpTo(ctx context.Context, statusID uuid.UUID, date time.Time) ([]*Task, error) {
	var tasks []*Task
	query := `SELECT ` + taskColumns + taskJoins + `
        WHERE t.status_id = $1 AND t.task_date <= $2
        ORDER BY t.task_date
    `
	if err := r.db.SelectContext(ctx, &tasks, query, statusID, date.Format(time.DateOnly)); err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return tasks, nil
}
