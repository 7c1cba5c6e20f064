package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	income := env.Store.TransactionTypeID("Ingreso")
	expense := env.Store.TransactionTypeID("Gasto")
	sale := env.Store.CategoryID("Venta de café")
	supplies := env.Store.CategoryID("Insumos")

	valid := func(mut func(*transaction.CreateTransactionRequest)) transaction.CreateTransactionRequest {
		req := transaction.CreateTransactionRequest{
			PlotID:                fs.Plot.ID,
			TransactionTypeID:     income,
			TransactionCategoryID: sale,
			Description:           " Venta de pergamino ",
			Value:                 1250000,
			TransactionDate:       "2024-06-15",
		}
		if mut != nil {
			mut(&req)
		}
		return req
	}

	tests := []struct {
		name    string
		userID  uuid.UUID
		req     transaction.CreateTransactionRequest
		wantErr error
	}{
		{"operator_cannot_add", fs.Operator.ID, valid(nil), authorization.ErrMissingPermission},
		{"outsider_cannot_add", fs.Outsider.ID, valid(nil), authorization.ErrNotMember},
		{"unknown_plot", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.PlotID = uuid.New() }), plot.ErrPlotNotFound},
		{"category_of_other_type", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.TransactionCategoryID = supplies }), transaction.ErrCategoryMismatch},
		{"unknown_type", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.TransactionTypeID = uuid.New() }), transaction.ErrTypeNotFound},
		{"unknown_category", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.TransactionCategoryID = uuid.New() }), transaction.ErrCategoryNotFound},
		{"zero_value", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.Value = 0 }), transaction.ErrNonPositiveValue},
		{"negative_value", fs.Admin.ID, valid(func(r *transaction.CreateTransactionRequest) { r.Value = -10 }), transaction.ErrNonPositiveValue},
		{"bad_date", fs.Owner.ID, valid(func(r *transaction.CreateTransactionRequest) { r.TransactionDate = "15/06/2024" }), transaction.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.Transaction.Create(ctx, tt.userID, &req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	req := valid(nil)
	created, err := env.Transaction.Create(ctx, fs.Admin.ID, &req)
	require.NoError(t, err)
	assert.Equal(t, "Venta de pergamino", created.Description)
	assert.Equal(t, "Ingreso", created.TransactionTypeName)
	assert.Equal(t, "Venta de café", created.TransactionCategoryName)
	assert.Equal(t, status.Active, created.StatusName)
	assert.Equal(t, fs.Farm.ID, created.FarmID)

	_, err = env.Transaction.Get(ctx, fs.Operator.ID, created.ID)
	assert.ErrorIs(t, err, authorization.ErrMissingPermission)

	_, err = env.Transaction.ListByPlot(ctx, fs.Operator.ID, fs.Plot.ID)
	assert.ErrorIs(t, err, authorization.ErrMissingPermission)

	expenseReq := valid(func(r *transaction.CreateTransactionRequest) {
		r.TransactionTypeID = expense
		r.TransactionCategoryID = supplies
		r.TransactionDate = "2024-06-18"
	})
	_, err = env.Transaction.Create(ctx, fs.Owner.ID, &expenseReq)
	require.NoError(t, err)

	list, err := env.Transaction.ListByPlot(ctx, fs.Owner.ID, fs.Plot.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Gasto", list[0].TransactionTypeName)
}

func TestTransactionService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	expense := env.Store.TransactionTypeID("Gasto")
	income := env.Store.TransactionTypeID("Ingreso")
	labour := env.Store.CategoryID("Mano de obra")

	created, err := env.Transaction.Create(ctx, fs.Owner.ID, &transaction.CreateTransactionRequest{
		PlotID:                fs.Plot.ID,
		TransactionTypeID:     expense,
		TransactionCategoryID: labour,
		Value:                 300000,
		TransactionDate:       "2024-06-01",
	})
	require.NoError(t, err)

	// switching only the type leaves the category behind
	_, err = env.Transaction.Update(ctx, fs.Owner.ID, created.ID, &transaction.UpdateTransactionRequest{TransactionTypeID: &income})
	assert.ErrorIs(t, err, transaction.ErrCategoryMismatch)

	zero := 0.0
	_, err = env.Transaction.Update(ctx, fs.Owner.ID, created.ID, &transaction.UpdateTransactionRequest{Value: &zero})
	assert.ErrorIs(t, err, transaction.ErrNonPositiveValue)

	_, err = env.Transaction.Update(ctx, fs.Operator.ID, created.ID, &transaction.UpdateTransactionRequest{})
	assert.ErrorIs(t, err, authorization.ErrMissingPermission)

	value := 350000.0
	date := "2024-06-02"
	note := "Jornales de la semana"
	updated, err := env.Transaction.Update(ctx, fs.Admin.ID, created.ID, &transaction.UpdateTransactionRequest{
		Value:           &value,
		TransactionDate: &date,
		Description:     &note,
	})
	require.NoError(t, err)
	assert.Equal(t, value, updated.Value)
	assert.Equal(t, date, updated.TransactionDate.Format(time.DateOnly))
	assert.Equal(t, note, updated.Description)
	assert.Equal(t, labour, updated.TransactionCategoryID)

	assert.ErrorIs(t, env.Transaction.Delete(ctx, fs.Operator.ID, created.ID), authorization.ErrMissingPermission)
	require.NoError(t, env.Transaction.Delete(ctx, fs.Owner.ID, created.ID))
	assert.ErrorIs(t, env.Transaction.Delete(ctx, fs.Owner.ID, created.ID), transaction.ErrTransactionInactive)

	_, err = env.Transaction.Update(ctx, fs.Owner.ID, created.ID, &transaction.UpdateTransactionRequest{Value: &value})
	assert.ErrorIs(t, err, transaction.ErrTransactionInactive)

	list, err := env.Transaction.ListByPlot(ctx, fs.Owner.ID, fs.Plot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, env.Transaction.Delete(ctx, fs.Owner.ID, uuid.New()), transaction.ErrTransactionNotFound)
}

func TestTransactionService_Catalog(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()

	types, err := env.Transaction.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Gasto", types[0].Name)
	assert.Equal(t, "Ingreso", types[1].Name)

	for _, tt := range types {
		t.Run(tt.Name, func(t *testing.T) {
			cats, err := env.Transaction.ListCategories(ctx, tt.ID)
			require.NoError(t, err)
			assert.Len(t, cats, len(transaction.SeedCategories[tt.Name]))
			for _, c := range cats {
				assert.Equal(t, tt.ID, c.TransactionTypeID)
			}
		})
	}

	_, err = env.Transaction.ListCategories(ctx, uuid.New())
	assert.ErrorIs(t, err, transaction.ErrTypeNotFound)
}
