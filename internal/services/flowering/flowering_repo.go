package flowering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curaious/finca/internal/db"
	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFloweringNotFound     = fmt.Errorf("%w: flowering", perrors.ErrNotFound)
	ErrFloweringTypeNotFound = fmt.Errorf("%w: flowering type", perrors.ErrNotFound)
	ErrDuplicateActive       = fmt.Errorf("%w: the plot already has an active flowering of that type", perrors.ErrValidation)
)

const activeFloweringIndex = "idx_flowerings_plot_type_active"

const floweringColumns = `
    f.id, f.plot_id, p.farm_id, f.flowering_type_id, ft.name AS flowering_type_name,
    f.flowering_date, f.harvest_date, f.status_id, s.name AS status_name, f.created_at, f.updated_at
`

const floweringJoins = `
    FROM flowerings f
    JOIN flowering_types ft ON ft.id = f.flowering_type_id
    JOIN plots p ON p.id = f.plot_id
    JOIN statuses s ON s.id = f.status_id
`

type FloweringRepo struct {
	db *sqlx.DB
}

func NewFloweringRepo(db *sqlx.DB) *FloweringRepo {
	return &FloweringRepo{db: db}
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

func (r *FloweringRepo) GetType(ctx context.Context, id uuid.UUID) (*FloweringType, error) {
	var ft FloweringType
	if err := r.db.GetContext(ctx, &ft, `SELECT id, name FROM flowering_types WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFloweringTypeNotFound
		}
		return nil, fmt.Errorf("failed to get flowering type: %w", err)
	}
	return &ft, nil
}

func (r *FloweringRepo) ListTypes(ctx context.Context) ([]*FloweringType, error) {
	var types []*FloweringType
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name FROM flowering_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list flowering types: %w", err)
	}
	return types, nil
}

func (r *FloweringRepo) Create(ctx context.Context, f *Flowering) (*Flowering, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO flowerings (plot_id, flowering_type_id, flowering_date, harvest_date, status_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, f.PlotID, f.FloweringTypeID, f.FloweringDate.Format(time.DateOnly), dateOrNil(f.HarvestDate), f.StatusID)
	if err != nil {
		if db.IsUniqueViolation(err, activeFloweringIndex) {
			return nil, ErrDuplicateActive
		}
		return nil, fmt.Errorf("failed to create flowering: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *FloweringRepo) GetByID(ctx context.Context, id uuid.UUID) (*Flowering, error) {
	var f Flowering
	if err := r.db.GetContext(ctx, &f, `SELECT `+floweringColumns+floweringJoins+` WHERE f.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFloweringNotFound
		}
		return nil, fmt.Errorf("failed to get flowering: %w", err)
	}
	return &f, nil
}

// ExistsWithStatus reports whether the plot has a flowering of the type in
// the given status
func (r *FloweringRepo) ExistsWithStatus(ctx context.Context, plotID, floweringTypeID, statusID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM flowerings
            WHERE plot_id = $1 AND flowering_type_id = $2 AND status_id = $3
        )
    `, plotID, floweringTypeID, statusID)
	if err != nil {
		return false, fmt.Errorf("failed to check flowerings: %w", err)
	}
	return exists, nil
}

func (r *FloweringRepo) Update(ctx context.Context, f *Flowering) (*Flowering, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE flowerings SET harvest_date = $1, status_id = $2, updated_at = NOW()
        WHERE id = $3
    `, dateOrNil(f.HarvestDate), f.StatusID, f.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update flowering: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrFloweringNotFound
	}
	return r.GetByID(ctx, f.ID)
}

func (r *FloweringRepo) ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Flowering, error) {
	var flowerings []*Flowering
	query := `SELECT ` + floweringColumns + floweringJoins + `
        WHERE f.plot_id = $1 AND f.status_id <> $2
        ORDER BY f.flowering_date DESC
    `
	if err := r.db.SelectContext(ctx, &flowerings, query, plotID, excludeStatusID); err != nil {
		return nil, fmt.Errorf("failed to list flowerings: %w", err)
	}
	return flowerings, nil
}
