package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
)

var (
	ErrTransactionInactive = fmt.Errorf("%w: transaction is inactive", perrors.ErrInvalidState)
	ErrCategoryMismatch    = fmt.Errorf("%w: category does not belong to the transaction type", perrors.ErrValidation)
	ErrNonPositiveValue    = fmt.Errorf("%w: value must be greater than zero", perrors.ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: transaction_date must be formatted as YYYY-MM-DD", perrors.ErrValidation)
)

type Repository interface {
	GetType(ctx context.Context, id uuid.UUID) (*TransactionType, error)
	ListTypes(ctx context.Context) ([]*TransactionType, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*TransactionCategory, error)
	ListCategories(ctx context.Context, typeID uuid.UUID) ([]*TransactionCategory, error)
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) (*Transaction, error)
	ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Transaction, error)
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

// TransactionService is the plot ledger of incomes and expenses
type TransactionService struct {
	repo     Repository
	statuses StatusRegistry
	guard    Guard
	plots    Plots
}

func NewTransactionService(repo Repository, statuses StatusRegistry, guard Guard, plots Plots) *TransactionService {
	return &TransactionService{repo: repo, statuses: statuses, guard: guard, plots: plots}
}

func (s *TransactionService) status(ctx context.Context, name string) (*status.Status, error) {
	return s.statuses.Get(ctx, name, status.TypeTransaction)
}

// checkClassification verifies the type exists and owns the category
func (s *TransactionService) checkClassification(ctx context.Context, typeID, categoryID uuid.UUID) error {
	if _, err := s.repo.GetType(ctx, typeID); err != nil {
		return err
	}
	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if c.TransactionTypeID != typeID {
		return ErrCategoryMismatch
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *CreateTransactionRequest) (*Transaction, error) {
	p, err := s.plots.GetActive(ctx, req.PlotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.AddTransaction); err != nil {
		return nil, err
	}

	if err := s.checkClassification(ctx, req.TransactionTypeID, req.TransactionCategoryID); err != nil {
		return nil, err
	}
	if req.Value <= 0 {
		return nil, ErrNonPositiveValue
	}
	date, err := time.Parse(time.DateOnly, req.TransactionDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	active, err := s.status(ctx, status.Active)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, &Transaction{
		PlotID:                p.ID,
		FarmID:                p.FarmID,
		TransactionTypeID:     req.TransactionTypeID,
		TransactionCategoryID: req.TransactionCategoryID,
		Description:           strings.TrimSpace(req.Description),
		Value:                 req.Value,
		TransactionDate:       date,
		StatusID:              active.ID,
		CreatorID:             userID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Transaction created", slog.String("transaction_id", t.ID.String()), slog.String("plot_id", p.ID.String()))
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, transactionID uuid.UUID, req *UpdateTransactionRequest) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.EditTransaction); err != nil {
		return nil, err
	}
	if t.StatusName != status.Active {
		return nil, ErrTransactionInactive
	}

	if req.TransactionTypeID != nil {
		t.TransactionTypeID = *req.TransactionTypeID
	}
	if req.TransactionCategoryID != nil {
		t.TransactionCategoryID = *req.TransactionCategoryID
	}
	if req.TransactionTypeID != nil || req.TransactionCategoryID != nil {
		if err := s.checkClassification(ctx, t.TransactionTypeID, t.TransactionCategoryID); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, ErrNonPositiveValue
		}
		t.Value = *req.Value
	}
	if req.TransactionDate != nil {
		date, err := time.Parse(time.DateOnly, *req.TransactionDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		t.TransactionDate = date
	}

	return s.repo.Update(ctx, t)
}

// Delete soft-deletes the transaction. Deleting an Inactive one is an error.
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.DeleteTransaction); err != nil {
		return err
	}
	if t.StatusName != status.Active {
		return ErrTransactionInactive
	}

	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return err
	}
	t.StatusID = inactive.ID

	if _, err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	slog.Info("Transaction deleted", slog.String("transaction_id", transactionID.String()))
	return nil
}

func (s *TransactionService) Get(ctx context.Context, userID, transactionID uuid.UUID) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, t.FarmID, permission.ReadTransactions); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TransactionService) ListByPlot(ctx context.Context, userID, plotID uuid.UUID) ([]*Transaction, error) {
	p, err := s.plots.GetActive(ctx, plotID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Authorize(ctx, userID, p.FarmID, permission.ReadTransactions); err != nil {
		return nil, err
	}
	inactive, err := s.status(ctx, status.Inactive)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPlot(ctx, plotID, inactive.ID)
}

func (s *TransactionService) ListTypes(ctx context.Context) ([]*TransactionType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *TransactionService) ListCategories(ctx context.Context, typeID uuid.UUID) ([]*TransactionCategory, error) {
	if _, err := s.repo.GetType(ctx, typeID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, typeID)
}
