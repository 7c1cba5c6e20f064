package detection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrDetectionNotFound = fmt.Errorf("%w: detection", perrors.ErrNotFound)

const detectionColumns = `
    d.id, d.plot_id, p.farm_id, d.kind, d.image_key, d.label, d.confidence,
    d.status_id, s.name AS status_name, d.creator_id, d.created_at
`

const detectionJoins = `
    FROM detections d
    JOIN plots p ON p.id = d.plot_id
    JOIN statuses s ON s.id = d.status_id
`

type DetectionRepo struct {
	db *sqlx.DB
}

func NewDetectionRepo(db *sqlx.DB) *DetectionRepo {
	return &DetectionRepo{db: db}
}

func (r *DetectionRepo) Create(ctx context.Context, d *Detection) (*Detection, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO detections (plot_id, kind, image_key, label, confidence, status_id, creator_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `, d.PlotID, d.Kind, d.ImageKey, d.Label, d.Confidence, d.StatusID, d.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *DetectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*Detection, error) {
	var d Detection
	if err := r.db.GetContext(ctx, &d, `SELECT `+detectionColumns+detectionJoins+` WHERE d.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDetectionNotFound
		}
		return nil, fmt.Errorf("failed to get detection: %w", err)
	}
	return &d, nil
}

func (r *DetectionRepo) ListByPlot(ctx context.Context, plotID, statusID uuid.UUID) ([]*Detection, error) {
	var detections []*Detection
	query := `SELECT ` + detectionColumns + detectionJoins + `
        WHERE d.plot_id = $1 AND d.status_id = $2
        ORDER BY d.created_at DESC
    `
	if err := r.db.SelectContext(ctx, &detections, query, plotID, statusID); err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	return detections, nil
}

func (r *DetectionRepo) UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE detections SET status_id = $1 WHERE id = $2`, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to update detection: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrDetectionNotFound
	}
	return nil
}
