package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
)

type Repository interface {
	GetByName(ctx context.Context, name, typeName string) (*Status, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Status, error)
}

// StatusService is the status registry. The registry is seeded by
// migrations, so a missing row is a configuration error and never a
// business outcome.
type StatusService struct {
	repo Repository
}

func NewStatusService(repo Repository) *StatusService {
	return &StatusService{repo: repo}
}

// Get resolves a status by name within a status type
func (s *StatusService) Get(ctx context.Context, name, typeName string) (*Status, error) {
	st, err := s.repo.GetByName(ctx, name, typeName)
	if err != nil {
		if errors.Is(err, ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: status %q of type %q is not registered", perrors.ErrConfiguration, name, typeName)
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return st, nil
}

// GetByID resolves a status referenced by an entity row
func (s *StatusService) GetByID(ctx context.Context, id uuid.UUID) (*Status, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: status %s is not registered", perrors.ErrConfiguration, id)
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return st, nil
}

// IDs resolves several statuses of one type at once, keyed by name.
func (s *StatusService) IDs(ctx context.Context, typeName string, names ...string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(names))
	for _, name := range names {
		st, err := s.Get(ctx, name, typeName)
		if err != nil {
			return nil, err
		}
		ids[name] = st.ID
	}
	return ids, nil
}
