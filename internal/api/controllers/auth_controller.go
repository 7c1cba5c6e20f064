package controllers

import (
	"context"

	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/services/user"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

type sessionResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services) {
	// Register a new, unverified account
	r.POST("/api/v1/auth/register", func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		var body user.RegisterRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		u, _, err := svc.User.Register(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to register user", err)
			return
		}

		writeCreated(ctx, stdCtx, "User registered, check your email to verify the account", u)
	})

	r.POST("/api/v1/auth/verify", func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		var body user.VerifyRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		u, err := svc.User.Verify(stdCtx, body.Token)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to verify user", err)
			return
		}

		writeOK(ctx, stdCtx, "User verified successfully", u)
	})

	r.POST("/api/v1/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		var body user.LoginRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		u, token, err := svc.User.Login(stdCtx, body.Email, body.Password)
		if err != nil {
			writeError(ctx, stdCtx, "Login failed", err)
			return
		}

		writeOK(ctx, stdCtx, "Logged in successfully", sessionResponse{Token: token, User: u})
	})

	// Always answers OK so the endpoint cannot be used to probe accounts
	r.POST("/api/v1/auth/password-reset", func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		var body user.PasswordResetRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		if _, err := svc.User.RequestPasswordReset(stdCtx, body.Email); err != nil {
			writeError(ctx, stdCtx, "Failed to request password reset", err)
			return
		}

		writeOK(ctx, stdCtx, "If the account exists a reset code was sent", nil)
	})

	r.POST("/api/v1/auth/password-reset/confirm", func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		var body user.PasswordResetConfirm
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", err)
			return
		}

		if err := svc.User.ResetPassword(stdCtx, body.Token, body.Password); err != nil {
			writeError(ctx, stdCtx, "Failed to reset password", err)
			return
		}

		writeOK(ctx, stdCtx, "Password updated successfully", nil)
	})

	r.GET("/api/v1/auth/me", withUser(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User) {
		writeOK(ctx, stdCtx, "User retrieved successfully", u)
	}))
}
