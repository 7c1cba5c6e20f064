package detection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrDetectionInactive = fmt.Errorf("%w: detection is already inactive", perrors.ErrInvalidState)
	ErrUnknownKind       = fmt.Errorf("%w: kind must be disease, deficiency or maturity", perrors.ErrValidation)
	ErrEmptyImage        = fmt.Errorf("%w: image is required", perrors.ErrValidation)
)

type Repository interface {
	Create(ctx context.Context, d *Detection) (*Detection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Detection, error)
	ListByPlot(ctx context.Context, plotID, statusID uuid.UUID) ([]*Detection, error)
	UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error
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

type Classifier interface {
	Classify(ctx context.Context, kind string, img *Image) (*Prediction, error)
}

type ImageStore interface {
	Put(ctx context.Context, plotID uuid.UUID, img *Image) (string, error)
}

type DetectionService struct {
	repo       Repository
	statuses   StatusRegistry
	guard      Guard
	plots      Plots
	classifier Classifier
	images     ImageStore
}

// NewDetectionService builds the service. images may be nil, in which case
// photos are classified but not kept.
func NewDetectionService(repo Repository, statuses StatusRegistry, guard Guard, plots Plots, classifier Classifier, images ImageStore) *DetectionService {
	return &DetectionService{repo: repo, statuses: statuses, guard: guard, plots: plots, classifier: classifier, images: images}
}

func (s *DetectionService) status(ctx context.Context, name string) (*status.Status, error) {
	return s.statuses.Get(ctx, name, status.TypeDetection)
}

// Create classifies an uploaded photo of the plot and records the result
func (s *DetectionService) Create(ctx context.Context, userID, plotID uuid.UUID, kind string, img *Image) (*Detection, error) {
	p, err := s.plots.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.AddHealthCheck); err != nil {
		return nil, err
	}
	if !kinds[kind] {
		return nil, ErrUnknownKind
	}
	if img == nil || len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	prediction, err := s.classifier.Classify(ctx, kind, img)
	if err != nil {
		return nil, err
	}

	var key string
	if s.images != nil {
		if key, err = s.images.Put(ctx, p.ID, img); err != nil {
			return nil, err
		}
	}

	active, err := s.status(ctx, status.Active)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.Create(ctx, &Detection{
		PlotID:     p.ID,
		FarmID:     p.FarmID,
		Kind:       kind,
		ImageKey:   key,
		Label:      prediction.Label,
		Confidence: prediction.Confidence,
		StatusID:   active.ID,
		CreatorID:  userID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Detection recorded", slog.String("detection_id", d.ID.String()), slog.String("kind", kind), slog.String("label", d.Label))
	return d, nil
}

func (s *DetectionService) ListByPlot(ctx context.Context, userID, plotID uuid.UUID) ([]*Detection, error) {
	p, err := s.plots.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.ReadHealthChecks); err != nil {
		return nil, err
	}
	active, err := s.status(ctx, status.Active)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPlot(ctx, plotID, active.ID)
}

// Delete soft-deletes the detection. Deleting an Inactive one is an error.
func (s *DetectionService) Delete(ctx context.Context, userID, detectionID uuid.UUID) error {
	d, err := s.repo.GetByID(ctx, detectionID)
	if err != nil {
		return err
	}
	if _, err := s.guard.Authorize(ctx, userID, d.FarmID, permission.DeleteHealthCheck); err != nil {
		return err
	}
	if d.StatusName != status.Active {
		return ErrDetectionInactive
	}

	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, d.ID, inactive.ID)
}
