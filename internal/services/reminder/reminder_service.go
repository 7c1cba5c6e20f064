// Package reminder runs the daily task sweep. It is triggered from outside
// the server, by `finca reminders send` under cron or any other timer.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/task"
	"github.com/google/uuid"
)

type Tasks interface {
	PendingDue(ctx context.Context, date time.Time) ([]*task.Task, error)
	CloseElapsed(ctx context.Context, t *task.Task) (*task.Task, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, farmID uuid.UUID, kind, message string, push bool)
}

// Result counts what a sweep did
type Result struct {
	Closed   int `json:"closed"`
	Reminded int `json:"reminded"`
	Failed   int `json:"failed"`
}

type ReminderService struct {
	tasks    Tasks
	notifier Notifier
	clock    clock.Clock
	loc      *time.Location
}

func NewReminderService(tasks Tasks, notifier Notifier, clk clock.Clock, loc *time.Location) *ReminderService {
	return &ReminderService{tasks: tasks, notifier: notifier, clock: clk, loc: loc}
}

// SendReminders reminds the owner and collaborator of Pending tasks dated
// today, according to each task's reminder flags, then closes every Pending
// task whose date has been reached. A failing task is logged and skipped.
func (s *ReminderService) SendReminders(ctx context.Context) (*Result, error) {
	today := clock.Today(s.clock, s.loc)

	due, err := s.tasks.PendingDue(ctx, today)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, t := range due {
		if clock.Date(t.TaskDate, time.UTC).Equal(today) {
			res.Reminded += s.remind(ctx, t)
		}

		if _, err := s.tasks.CloseElapsed(ctx, t); err != nil {
			slog.Warn("Unable to close task", slog.String("task_id", t.ID.String()), slog.Any("error", err))
			res.Failed++
			continue
		}
		res.Closed++
	}

	slog.Info("Reminder sweep finished",
		slog.Int("closed", res.Closed),
		slog.Int("reminded", res.Reminded),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *ReminderService) remind(ctx context.Context, t *task.Task) int {
	msg := fmt.Sprintf("Recordatorio: hoy tienes la tarea %s", t.CulturalWorkTypeName)
	sent := 0
	if t.ReminderOwner {
		s.notifier.Notify(ctx, t.OwnerUserID, t.FarmID, notification.KindTaskReminder, msg, true)
		sent++
	}
	if t.ReminderCollaborator && t.CollaboratorUserID != t.OwnerUserID {
		s.notifier.Notify(ctx, t.CollaboratorUserID, t.FarmID, notification.KindTaskReminder, msg, true)
		sent++
	}
	return sent
}
