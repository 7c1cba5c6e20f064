package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterFloweringRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/flowerings", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		var body flowering.CreateFloweringRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Flowering.Create(stdCtx, u.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create flowering", err)
			return
		}

		writeCreated(ctx, stdCtx, "Flowering created successfully", created)
	}))

	r.GET("/api/v1/plots/{plot_id}/flowerings", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		flowerings, err := svc.Flowering.ListByPlot(stdCtx, u.ID, plotID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list flowerings", err)
			return
		}

		writeOK(ctx, stdCtx, "Flowerings retrieved successfully", flowerings)
	}))

	r.GET("/api/v1/flowerings/{flowering_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		floweringID, err := pathParamUUID(ctx, "flowering_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid flowering ID", err)
			return
		}

		f, err := svc.Flowering.Get(stdCtx, u.ID, floweringID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get flowering", err)
			return
		}

		writeOK(ctx, stdCtx, "Flowering retrieved successfully", f)
	}))

	// Record the harvest of an Active flowering
	r.POST("/api/v1/flowerings/{flowering_id}/harvest", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		floweringID, err := pathParamUUID(ctx, "flowering_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid flowering ID", err)
			return
		}

		var body flowering.HarvestRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		f, err := svc.Flowering.Harvest(stdCtx, u.ID, floweringID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to record harvest", err)
			return
		}

		writeOK(ctx, stdCtx, "Harvest recorded successfully", f)
	}))

	r.GET("/api/v1/flowerings/{flowering_id}/recommendations", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		floweringID, err := pathParamUUID(ctx, "flowering_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid flowering ID", err)
			return
		}

		recs, err := svc.Flowering.Recommendations(stdCtx, u.ID, floweringID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get recommendations", err)
			return
		}

		writeOK(ctx, stdCtx, "Recommendations retrieved successfully", recs)
	}))

	r.DELETE("/api/v1/flowerings/{flowering_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		floweringID, err := pathParamUUID(ctx, "flowering_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid flowering ID", err)
			return
		}

		if err := svc.Flowering.Delete(stdCtx, u.ID, floweringID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete flowering", err)
			return
		}

		writeOK(ctx, stdCtx, "Flowering deleted successfully", nil)
	}))
}
