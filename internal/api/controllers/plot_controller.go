package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterPlotRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/farms/{farm_id}/plots", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		var body plot.CreatePlotRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Plot.Create(stdCtx, u.ID, farmID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create plot", err)
			return
		}

		writeCreated(ctx, stdCtx, "Plot created successfully", created)
	}))

	r.GET("/api/v1/farms/{farm_id}/plots", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		plots, err := svc.Plot.List(stdCtx, u.ID, farmID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list plots", err)
			return
		}

		writeOK(ctx, stdCtx, "Plots retrieved successfully", plots)
	}))

	r.GET("/api/v1/plots/{plot_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		p, err := svc.Plot.Get(stdCtx, u.ID, plotID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get plot", err)
			return
		}

		writeOK(ctx, stdCtx, "Plot retrieved successfully", p)
	}))

	r.PUT("/api/v1/plots/{plot_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		var body plot.UpdatePlotRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		updated, err := svc.Plot.Update(stdCtx, u.ID, plotID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update plot", err)
			return
		}

		writeOK(ctx, stdCtx, "Plot updated successfully", updated)
	}))

	r.DELETE("/api/v1/plots/{plot_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		plotID, err := pathParamUUID(ctx, "plot_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid plot ID", err)
			return
		}

		if err := svc.Plot.Delete(stdCtx, u.ID, plotID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete plot", err)
			return
		}

		writeOK(ctx, stdCtx, "Plot deleted successfully", nil)
	}))
}
