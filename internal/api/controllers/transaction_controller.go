package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterTransactionRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/transactions", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		var body transaction.CreateTransactionRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Transaction.Create(stdCtx, u.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create transaction", err)
			return
		}

		writeCreated(ctx, stdCtx, "Transaction created successfully", created)
	}))

	r.GET("/api/v1/plots/{plot_id}/transactions", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		transactions, err := svc.Transaction.ListByPlot(stdCtx, u.ID, plotID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list transactions", err)
			return
		}

		writeOK(ctx, stdCtx, "Transactions retrieved successfully", transactions)
	}))

	r.GET("/api/v1/transactions/{transaction_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		transactionID, err := pathParamUUID(ctx, "transaction_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid transaction ID", err)
			return
		}

		t, err := svc.Transaction.Get(stdCtx, u.ID, transactionID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get transaction", err)
			return
		}

		writeOK(ctx, stdCtx, "Transaction retrieved successfully", t)
	}))

	r.PUT("/api/v1/transactions/{transaction_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		transactionID, err := pathParamUUID(ctx, "transaction_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid transaction ID", err)
			return
		}

		var body transaction.UpdateTransactionRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		updated, err := svc.Transaction.Update(stdCtx, u.ID, transactionID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update transaction", err)
			return
		}

		writeOK(ctx, stdCtx, "Transaction updated successfully", updated)
	}))

	r.DELETE("/api/v1/transactions/{transaction_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		transactionID, err := pathParamUUID(ctx, "transaction_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid transaction ID", err)
			return
		}

		if err := svc.Transaction.Delete(stdCtx, u.ID, transactionID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete transaction", err)
			return
		}

		writeOK(ctx, stdCtx, "Transaction deleted successfully", nil)
	}))
}
