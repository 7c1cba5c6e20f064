package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/invitation"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterInvitationRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/farms/{farm_id}/invitations", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		farmID, err := pathParamUUID(ctx, "farm_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid farm ID", err)
			return
		}

		var body invitation.CreateInvitationRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		inv, err := svc.Invitation.Create(stdCtx, u.ID, farmID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create invitation", err)
			return
		}

		writeCreated(ctx, stdCtx, "Invitation sent successfully", inv)
	}))

	// Pending invitations addressed to the caller
	r.GET("/api/v1/me/invitations", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		invitations, err := svc.Invitation.ListMine(stdCtx, u.Email)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list invitations", err)
			return
		}

		writeOK(ctx, stdCtx, "Invitations retrieved successfully", invitations)
	}))

	r.POST("/api/v1/invitations/{invitation_id}/accept", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		invitationID, err := pathParamUUID(ctx, "invitation_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid invitation ID", err)
			return
		}

		m, err := svc.Invitation.Accept(stdCtx, u.ID, u.Email, invitationID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to accept invitation", err)
			return
		}

		writeOK(ctx, stdCtx, "Invitation accepted successfully", m)
	}))

	r.POST("/api/v1/invitations/{invitation_id}/reject", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		invitationID, err := pathParamUUID(ctx, "invitation_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid invitation ID", err)
			return
		}

		if err := svc.Invitation.Reject(stdCtx, u.Email, invitationID); err != nil {
			writeError(ctx, stdCtx, "Failed to reject invitation", err)
			return
		}

		writeOK(ctx, stdCtx, "Invitation rejected successfully", nil)
	}))
}
