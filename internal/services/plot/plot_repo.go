package plot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/db"
	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPlotNotFound  = fmt.Errorf("%w: plot", perrors.ErrNotFound)
	ErrDuplicateName = fmt.Errorf("%w: the farm already has a plot with that name", perrors.ErrValidation)
)

const activePlotNameIndex = "idx_plots_farm_name_active"

const plotColumns = `
    p.id, p.farm_id, p.name, p.coffee_variety, p.area_hectares, p.status_id, s.name AS status_name,
    p.created_at, p.updated_at
`

type PlotRepo struct {
	db *sqlx.DB
}

func NewPlotRepo(db *sqlx.DB) *PlotRepo {
	return &PlotRepo{db: db}
}

func (r *PlotRepo) Create(ctx context.Context, p *Plot) (*Plot, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO plots (farm_id, name, coffee_variety, area_hectares, status_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, p.FarmID, p.Name, p.CoffeeVariety, p.AreaHectares, p.StatusID)
	if err != nil {
		if db.IsUniqueViolation(err, activePlotNameIndex) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create plot: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*Plot, error) {
	query := `SELECT ` + plotColumns + `
		FROM plots p
		JOIN statuses s ON s.id = p.status_id
		WHERE p.id = $1
	`
	var p Plot
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlotNotFound
		}
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}
	return &p, nil
}

func (r *PlotRepo) ListByFarm(ctx context.Context, farmID, statusID uuid.UUID) ([]*Plot, error) {
	query := `SELECT ` + plotColumns + `
		FROM plots p
		JOIN statuses s ON s.id = p.status_id
		WHERE p.farm_id = $1 AND p.status_id = $2
		ORDER BY p.name
	`
	var plots []*Plot
	if err := r.db.SelectContext(ctx, &plots, query, farmID, statusID); err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	return plots, nil
}

func (r *PlotRepo) Update(ctx context.Context, p *Plot) (*Plot, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE plots
        SET name = $1, coffee_variety = $2, area_hectares = $3, status_id = $4, updated_at = NOW()
        WHERE id = $5
    `, p.Name, p.CoffeeVariety, p.AreaHectares, p.StatusID, p.ID)
	if err != nil {
		if db.IsUniqueViolation(err, activePlotNameIndex) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update plot: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrPlotNotFound
	}
	return r.GetByID(ctx, p.ID)
}
