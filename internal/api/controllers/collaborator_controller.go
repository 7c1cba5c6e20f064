package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/collaborator"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterCollaboratorRoutes(r *router.Router, svc *services.Services) {
	r.GET("/api/v1/farms/{farm_id}/collaborators", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		collaborators, err := svc.Collaborator.List(stdCtx, u.ID, farmID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list collaborators", err)
			return
		}

		writeOK(ctx, stdCtx, "Collaborators retrieved successfully", collaborators)
	}))

	// Change a collaborator's role
	r.PUT("/api/v1/farms/{farm_id}/collaborators", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		var body collaborator.EditRoleRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		m, err := svc.Collaborator.EditRole(stdCtx, u.ID, farmID, body.CollaboratorUserID, body.RoleID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to edit collaborator role", err)
			return
		}

		writeOK(ctx, stdCtx, "Collaborator role updated successfully", m)
	}))

	r.DELETE("/api/v1/farms/{farm_id}/collaborators/{user_id}", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}
		collaboratorID, err := pathParamUUID(ctx, "user_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid user ID", err)
			return
		}

		if err := svc.Collaborator.Delete(stdCtx, u.ID, farmID, collaboratorID); err != nil {
			writeError(ctx, stdCtx, "Failed to remove collaborator", err)
			return
		}

		writeOK(ctx, stdCtx, "Collaborator removed successfully", nil)
	}))

	// Roles the caller may grant on this farm
	r.GET("/api/v1/farms/{farm_id}/assignable-roles", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		m, err := svc.Guard.Member(stdCtx, u.ID, farmID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list assignable roles", err)
			return
		}

		roles, err := svc.Permission.AssignableRoles(stdCtx, m.RoleID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list assignable roles", err)
			return
		}

		writeOK(ctx, stdCtx, "Roles retrieved successfully", roles)
	}))
}
