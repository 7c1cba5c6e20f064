package flowering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrFloweringInactive  = fmt.Errorf("%w: flowering is inactive", perrors.ErrInvalidState)
	ErrNotActive          = fmt.Errorf("%w: only an active flowering can be harvested", perrors.ErrInvalidState)
	ErrFutureFlowering    = fmt.Errorf("%w: flowering_date cannot be in the future", perrors.ErrValidation)
	ErrFutureHarvest      = fmt.Errorf("%w: harvest_date cannot be in the future", perrors.ErrValidation)
	ErrHarvestBeforeStart = fmt.Errorf("%w: harvest_date cannot be before flowering_date", perrors.ErrValidation)
	ErrHarvestTooEarly    = fmt.Errorf("%w: too early to harvest, less than %d weeks since flowering", perrors.ErrValidation, MinHarvestWeeks)
	ErrHarvestTooLate     = fmt.Errorf("%w: more than %d weeks since flowering, it should have been harvested already", perrors.ErrValidation, MaxHarvestWeeks)
	ErrInvalidDate        = fmt.Errorf("%w: dates must be formatted as YYYY-MM-DD", perrors.ErrValidation)
)

type Repository interface {
	GetType(ctx context.Context, id uuid.UUID) (*FloweringType, error)
	ListTypes(ctx context.Context) ([]*FloweringType, error)
	Create(ctx context.Context, f *Flowering) (*Flowering, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Flowering, error)
	ExistsWithStatus(ctx context.Context, plotID, floweringTypeID, statusID uuid.UUID) (bool, error)
	Update(ctx context.Context, f *Flowering) (*Flowering, error)
	ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Flowering, error)
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

type FloweringService struct {
	repo     Repository
	statuses StatusRegistry
	guard    Guard
	plots    Plots
	clock    clock.Clock
	loc      *time.Location
}

func NewFloweringService(repo Repository, statuses StatusRegistry, guard Guard, plots Plots, clk clock.Clock, loc *time.Location) *FloweringService {
	return &FloweringService{repo: repo, statuses: statuses, guard: guard, plots: plots, clock: clk, loc: loc}
}

// CheckHarvestWindow validates a harvest date against its flowering date
func CheckHarvestWindow(floweringDate, harvestDate, today time.Time) error {
	if harvestDate.After(today) {
		return ErrFutureHarvest
	}
	if harvestDate.Before(floweringDate) {
		return ErrHarvestBeforeStart
	}
	w := clock.WeeksBetween(floweringDate, harvestDate)
	if w < MinHarvestWeeks {
		return ErrHarvestTooEarly
	}
	if w > MaxHarvestWeeks {
		return ErrHarvestTooLate
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func (s *FloweringService) today() time.Time {
	return clock.Today(s.clock, s.loc)
}

func (s *FloweringService) status(ctx context.Context, name string) (*status.Status, error) {
	return s.statuses.Get(ctx, name, status.TypeFlowering)
}

// ensureNotInactive is shared by every mutator of an existing flowering
func ensureNotInactive(f *Flowering) error {
	if f.StatusName == status.FloweringInactive {
		return ErrFloweringInactive
	}
	return nil
}

// Create registers a flowering. With a harvest date it is stored Harvested;
// without one it is Active and must be unique per plot and type.
func (s *FloweringService) Create(ctx context.Context, userID uuid.UUID, req *CreateFloweringRequest) (*Flowering, error) {
	p, err := s.plots.GetActive(ctx, req.PlotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.AddFlowering); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetType(ctx, req.FloweringTypeID); err != nil {
		return nil, err
	}

	floweringDate, err := parseDate(req.FloweringDate)
	if err != nil {
		return nil, err
	}

	today := s.today()
	if floweringDate.After(today) {
		return nil, ErrFutureFlowering
	}

	f := &Flowering{
		PlotID:          p.ID,
		FarmID:          p.FarmID,
		FloweringTypeID: req.FloweringTypeID,
		FloweringDate:   floweringDate,
	}

	var st *status.Status
	if req.HarvestDate != nil {
		harvestDate, err := parseDate(*req.HarvestDate)
		if err != nil {
			return nil, err
		}
		if err := CheckHarvestWindow(floweringDate, harvestDate, today); err != nil {
			return nil, err
		}
		f.HarvestDate = &harvestDate

		if st, err = s.status(ctx, status.FloweringHarvested); err != nil {
			return nil, err
		}
	} else {
		if clock.WeeksBetween(floweringDate, today) > MaxHarvestWeeks {
			return nil, ErrHarvestTooLate
		}

		if st, err = s.status(ctx, status.FloweringActive); err != nil {
			return nil, err
		}

		exists, err := s.repo.ExistsWithStatus(ctx, p.ID, req.FloweringTypeID, st.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateActive
		}
	}
	f.StatusID = st.ID

	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	slog.Info("Flowering created", slog.String("flowering_id", created.ID.String()), slog.String("status", created.StatusName))
	return created, nil
}

// Harvest records the harvest date of an Active flowering
func (s *FloweringService) Harvest(ctx context.Context, userID, floweringID uuid.UUID, req *HarvestRequest) (*Flowering, error) {
	f, err := s.repo.GetByID(ctx, floweringID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, f.FarmID, permission.EditFlowering); err != nil {
		return nil, err
	}
	if err := ensureNotInactive(f); err != nil {
		return nil, err
	}
	if f.StatusName != status.FloweringActive {
		return nil, ErrNotActive
	}

	harvestDate, err := parseDate(req.HarvestDate)
	if err != nil {
		return nil, err
	}
	if err := CheckHarvestWindow(clock.Date(f.FloweringDate, time.UTC), harvestDate, s.today()); err != nil {
		return nil, err
	}

	harvested, err := s.status(ctx, status.FloweringHarvested)
	if err != nil {
		return nil, err
	}
	f.HarvestDate = &harvestDate
	f.StatusID = harvested.ID

	return s.repo.Update(ctx, f)
}

// Delete soft-deletes the flowering. Deleting an Inactive one is an error.
func (s *FloweringService) Delete(ctx context.Context, userID, floweringID uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, floweringID)
	if err != nil {
		return err
	}
	if _, err := s.guard.Authorize(ctx, userID, f.FarmID, permission.DeleteFlowering); err != nil {
		return err
	}
	if err := ensureNotInactive(f); err != nil {
		return err
	}

	inactive, err := s.status(ctx, status.FloweringInactive)
	if err != nil {
		return err
	}
	f.StatusID = inactive.ID

	if _, err := s.repo.Update(ctx, f); err != nil {
		return err
	}

	slog.Info("Flowering deleted", slog.String("flowering_id", floweringID.String()))
	return nil
}

func (s *FloweringService) Get(ctx context.Context, userID, floweringID uuid.UUID) (*Flowering, error) {
	f, err := s.repo.GetByID(ctx, floweringID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, f.FarmID, permission.ReadFlowering); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FloweringService) ListByPlot(ctx context.Context, userID, plotID uuid.UUID) ([]*Flowering, error) {
	p, err := s.plots.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.ReadFlowering); err != nil {
		return nil, err
	}
	inactive, err := s.status(ctx, status.FloweringInactive)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPlot(ctx, plotID, inactive.ID)
}

// Recommendations returns the task schedule of a non-deleted flowering
func (s *FloweringService) Recommendations(ctx context.Context, userID, floweringID uuid.UUID) (*Recommendations, error) {
	f, err := s.Get(ctx, userID, floweringID)
	if err != nil {
		return nil, err
	}
	if err := ensureNotInactive(f); err != nil {
		return nil, err
	}

	return &Recommendations{
		FloweringID:   f.ID,
		FloweringDate: f.FloweringDate,
		Tasks:         Recommend(f.FloweringDate, s.today()),
	}, nil
}

func (s *FloweringService) ListTypes(ctx context.Context) ([]*FloweringType, error) {
	return s.repo.ListTypes(ctx)
}
