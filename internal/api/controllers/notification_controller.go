package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func RegisterNotificationRoutes(r *router.Router, svc *services.Services) {
	r.GET("/api/v1/me/notifications", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		notifications, err := svc.Notification.List(stdCtx, u.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list notifications", err)
			return
		}

		writeOK(ctx, stdCtx, "Notifications retrieved successfully", notifications)
	}))

	r.POST("/api/v1/notifications/{notification_id}/read", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		notificationID, err := pathParamUUID(ctx, "notification_id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid notification ID", err)
			return
		}

		n, err := svc.Notification.MarkRead(stdCtx, u.ID, notificationID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to mark notification as read", err)
			return
		}

		writeOK(ctx, stdCtx, "Notification marked as read", n)
	}))
}
