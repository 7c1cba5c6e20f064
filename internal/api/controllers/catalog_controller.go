package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// RegisterCatalogRoutes exposes the read-only seeded catalogs
func RegisterCatalogRoutes(r *router.Router, svc *services.Services) {
	r.GET("/api/v1/catalog/roles", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		roles, err := svc.Permission.ListRoles(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list roles", err)
			return
		}

		writeOK(ctx, stdCtx, "Roles retrieved successfully", roles)
	}))

	r.GET("/api/v1/catalog/roles/{role_id}/permissions", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		roleID, err := pathParamUUID(ctx, "role_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid role ID", err)
			return
		}

		permissions, err := svc.Permission.ListRolePermissions(stdCtx, roleID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list permissions", err)
			return
		}

		writeOK(ctx, stdCtx, "Permissions retrieved successfully", permissions)
	}))

	r.GET("/api/v1/catalog/cultural-work-types", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		types, err := svc.Task.ListWorkTypes(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list cultural work types", err)
			return
		}

		writeOK(ctx, stdCtx, "Cultural work types retrieved successfully", types)
	}))

	r.GET("/api/v1/catalog/flowering-types", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		types, err := svc.Flowering.ListTypes(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list flowering types", err)
			return
		}

		writeOK(ctx, stdCtx, "Flowering types retrieved successfully", types)
	}))

	r.GET("/api/v1/catalog/transaction-types", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		types, err := svc.Transaction.ListTypes(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list transaction types", err)
			return
		}

		writeOK(ctx, stdCtx, "Transaction types retrieved successfully", types)
	}))

	r.GET("/api/v1/catalog/transaction-types/{type_id}/categories", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *user.User) {
		typeID, err := pathParamUUID(ctx, "type_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid transaction type ID", err)
			return
		}

		categories, err := svc.Transaction.ListCategories(stdCtx, typeID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list transaction categories", err)
			return
		}

		writeOK(ctx, stdCtx, "Transaction categories retrieved successfully", categories)
	}))
}
