package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curaious/finca/internal/perrors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", perrors.ErrNotFound)
	ErrTypeNotFound        = fmt.Errorf("%w: transaction type", perrors.ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: transaction category", perrors.ErrNotFound)
)

const transactionColumns = `
    t.id, t.plot_id, p.farm_id, t.transaction_type_id, tt.name AS transaction_type_name,
    t.transaction_category_id, tc.name AS transaction_category_name, t.description, t.value,
    t.transaction_date, t.status_id, s.name AS status_name, t.creator_id, t.created_at, t.updated_at
`

const transactionJoins = `
    FROM transactions t
    JOIN transaction_types tt ON tt.id = t.transaction_type_id
    JOIN transaction_categories tc ON tc.id = t.transaction_category_id
    JOIN plots p ON p.id = t.plot_id
    JOIN statuses s ON s.id = t.status_id
`

type TransactionRepo struct {
	db *sqlx.DB
}

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) GetType(ctx context.Context, id uuid.UUID) (*TransactionType, error) {
	var tt TransactionType
	if err := r.db.GetContext(ctx, &tt, `SELECT id, name FROM transaction_types WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to get transaction type: %w", err)
	}
	return &tt, nil
}

func (r *TransactionRepo) ListTypes(ctx context.Context) ([]*TransactionType, error) {
	var types []*TransactionType
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name FROM transaction_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list transaction types: %w", err)
	}
	return types, nil
}

func (r *TransactionRepo) GetCategory(ctx context.Context, id uuid.UUID) (*TransactionCategory, error) {
	var tc TransactionCategory
	err := r.db.GetContext(ctx, &tc, `SELECT id, name, transaction_type_id FROM transaction_categories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get transaction category: %w", err)
	}
	return &tc, nil
}

func (r *TransactionRepo) ListCategories(ctx context.Context, typeID uuid.UUID) ([]*TransactionCategory, error) {
	var categories []*TransactionCategory
	err := r.db.SelectContext(ctx, &categories, `
        SELECT id, name, transaction_type_id FROM transaction_categories
        WHERE transaction_type_id = $1
        ORDER BY name
    `, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction categories: %w", err)
	}
	return categories, nil
}

func (r *TransactionRepo) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, `
        INSERT INTO transactions (
            plot_id, transaction_type_id, transaction_category_id, description, value,
            transaction_date, status_id, creator_id
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, t.PlotID, t.TransactionTypeID, t.TransactionCategoryID, t.Description, t.Value,
		t.TransactionDate.Format(time.DateOnly), t.StatusID, t.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var t Transaction
	if err := r.db.GetContext(ctx, &t, `SELECT `+transactionColumns+transactionJoins+` WHERE t.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepo) Update(ctx context.Context, t *Transaction) (*Transaction, error) {
	result, err := r.db.ExecContext(ctx, `
        UPDATE transactions
        SET transaction_type_id = $1, transaction_category_id = $2, description = $3, value = $4,
            transaction_date = $5, status_id = $6, updated_at = NOW()
        WHERE id = $7
    `, t.TransactionTypeID, t.TransactionCategoryID, t.Description, t.Value,
		t.TransactionDate.Format(time.DateOnly), t.StatusID, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrTransactionNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TransactionRepo) ListByPlot(ctx context.Context, plotID, excludeStatusID uuid.UUID) ([]*Transaction, error) {
	var transactions []*Transaction
	query := `SELECT ` + transactionColumns + transactionJoins + `
        WHERE t.plot_id = $1 AND t.status_id <> $2
        ORDER BY t.transaction_date DESC
    `
	if err := r.db.SelectContext(ctx, &transactions, query, plotID, excludeStatusID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
