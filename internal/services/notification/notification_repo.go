package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = fmt.Errorf("%w: notification", perrors.ErrNotFound)

const notificationColumns = `
    n.id, n.message, n.user_id, n.farm_id, n.kind, n.status_id, s.name AS status_name, n.created_at
`

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
        INSERT INTO notifications (message, user_id, farm_id, kind, status_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRowxContext(ctx, query, n.Message, n.UserID, n.FarmID, n.Kind, n.StatusID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications n
		JOIN statuses s ON s.id = n.status_id
		WHERE n.id = $1
	`
	var n Notification
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications n
		JOIN statuses s ON s.id = n.status_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
	`
	var notifications []*Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepo) UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET status_id = $1 WHERE id = $2`, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
