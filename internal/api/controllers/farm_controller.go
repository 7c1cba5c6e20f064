package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterFarmRoutes(r *router.Router, svc *services.Services) {
	// Create farm, the caller becomes its Owner
	r.POST("/api/v1/farms", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		var body farm.CreateFarmRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		created, err := svc.Farm.Create(stdCtx, u.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create farm", err)
			return
		}

		writeCreated(ctx, stdCtx, "Farm created successfully", created)
	}))

	// List farms the caller is an active member of
	r.GET("/api/v1/farms", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farms, err := svc.Farm.List(stdCtx, u.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list farms", err)
			return
		}

		writeOK(ctx, stdCtx, "Farms retrieved successfully", farms)
	}))

	r.GET("/api/v1/farms/{farm_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		f, err := svc.Farm.Get(stdCtx, u.ID, farmID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get farm", err)
			return
		}

		writeOK(ctx, stdCtx, "Farm retrieved successfully", f)
	}))

	r.PUT("/api/v1/farms/{farm_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		var body farm.UpdateFarmRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		updated, err := svc.Farm.Update(stdCtx, u.ID, farmID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update farm", err)
			return
		}

		writeOK(ctx, stdCtx, "Farm updated successfully", updated)
	}))

	r.DELETE("/api/v1/farms/{farm_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		if err := svc.Farm.Delete(stdCtx, u.ID, farmID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete farm", err)
			return
		}

		writeOK(ctx, stdCtx, "Farm deleted successfully", nil)
	}))
}
