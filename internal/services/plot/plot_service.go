package plot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrPlotInactive = fmt.Errorf("%w: plot is already inactive", perrors.ErrInvalidState)
	ErrInvalidArea  = fmt.Errorf("%w: area must be greater than zero", perrors.ErrValidation)
	ErrNameRequired = fmt.Errorf("%w: name is required", perrors.ErrValidation)
)

type Repository interface {
	Create(ctx context.Context, p *Plot) (*Plot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Plot, error)
	ListByFarm(ctx context.Context, farmID, statusID uuid.UUID) ([]*Plot, error)
	Update(ctx context.Context, p *Plot) (*Plot, error)
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type Guard interface {
	Authorize(ctx context.Context, userID, farmID uuid.UUID, permissionName string) (*membership.Membership, error)
}

type PlotService struct {
	repo     Repository
	statuses StatusRegistry
	guard    Guard
}

func NewPlotService(repo Repository, statuses StatusRegistry, guard Guard) *PlotService {
	return &PlotService{repo: repo, statuses: statuses, guard: guard}
}

func (s *PlotService) statusID(ctx context.Context, name string) (uuid.UUID, error) {
	st, err := s.statuses.Get(ctx, name, status.TypePlot)
	if err != nil {
		return uuid.Nil, err
	}
	return st.ID, nil
}

func (s *PlotService) nameTaken(ctx context.Context, farmID uuid.UUID, name string, except uuid.UUID) (bool, error) {
	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return false, err
	}
	plots, err := s.repo.ListByFarm(ctx, farmID, activeID)
	if err != nil {
		return false, err
	}
	for _, p := range plots {
		if p.ID != except && strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *PlotService) Create(ctx context.Context, userID, farmID uuid.UUID, req *CreatePlotRequest) (*Plot, error) {
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.AddPlot); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.AreaHectares <= 0 {
		return nil, ErrInvalidArea
	}

	taken, err := s.nameTaken(ctx, farmID, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}

	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, &Plot{
		FarmID:        farmID,
		Name:          name,
		CoffeeVariety: strings.TrimSpace(req.CoffeeVariety),
		AreaHectares:  req.AreaHectares,
		StatusID:      activeID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Plot created", slog.String("plot_id", p.ID.String()), slog.String("farm_id", farmID.String()))
	return p, nil
}

// GetActive returns the plot unless it is missing or soft-deleted. Every
// plot-scoped mutator resolves the farm through it.
func (s *PlotService) GetActive(ctx context.Context, plotID uuid.UUID) (*Plot, error) {
	p, err := s.repo.GetByID(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if p.StatusName != status.Active {
		return nil, ErrPlotNotFound
	}
	return p, nil
}

func (s *PlotService) Get(ctx context.Context, userID, plotID uuid.UUID) (*Plot, error) {
	p, err := s.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.ReadPlots); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlotService) List(ctx context.Context, userID, farmID uuid.UUID) ([]*Plot, error) {
	if _, err := s.guard.Authorize(ctx, userID, farmID, permission.ReadPlots); err != nil {
		return nil, err
	}
	activeID, err := s.statusID(ctx, status.Active)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByFarm(ctx, farmID, activeID)
}

func (s *PlotService) Update(ctx context.Context, userID, plotID uuid.UUID, req *UpdatePlotRequest) (*Plot, error) {
	p, err := s.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.EditPlot); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		taken, err := s.nameTaken(ctx, p.FarmID, name, p.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateName
		}
		p.Name = name
	}
	if req.CoffeeVariety != nil {
		p.CoffeeVariety = strings.TrimSpace(*req.CoffeeVariety)
	}
	if req.AreaHectares != nil {
		if *req.AreaHectares <= 0 {
			return nil, ErrInvalidArea
		}
		p.AreaHectares = *req.AreaHectares
	}

	return s.repo.Update(ctx, p)
}

// Delete soft-deletes the plot. Deleting an Inactive plot is an error.
func (s *PlotService) Delete(ctx context.Context, userID, plotID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, plotID)
	if err != nil {
		return err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.DeletePlot); err != nil {
		return err
	}
	if p.StatusName != status.Active {
		return ErrPlotInactive
	}

	inactiveID, err := s.statusID(ctx, status.Inactive)
	if err != nil {
		return err
	}
	p.StatusID = inactiveID
	if _, err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	slog.Info("Plot deleted", slog.String("plot_id", plotID.String()))
	return nil
}
