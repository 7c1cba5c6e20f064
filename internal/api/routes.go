package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/curaious/finca/internal/api/controllers"
	"github.com/curaious/finca/internal/api/response"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracePropagator = propagation.TraceContext{}
	tracer          = otel.Tracer("github.com/curaious/finca/internal/api")
)

var publicRoutes = map[string]bool{
	"/api/health":                         true,
	"/api/v1/auth/register":               true,
	"/api/v1/auth/verify":                 true,
	"/api/v1/auth/login":                  true,
	"/api/v1/auth/password-reset":         true,
	"/api/v1/auth/password-reset/confirm": true,
}

func (s *Server) initNewRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		if err := s.services.Ping(context.Background(), 2*time.Second); err != nil {
			slog.Warn("Health check failed", slog.Any("error", err))
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	controllers.RegisterAuthRoutes(r, s.services)
	controllers.RegisterFarmRoutes(r, s.services)
	controllers.RegisterCollaboratorRoutes(r, s.services)
	controllers.RegisterInvitationRoutes(r, s.services)
	controllers.RegisterPlotRoutes(r, s.services)
	controllers.RegisterTaskRoutes(r, s.services)
	controllers.RegisterFloweringRoutes(r, s.services)
	controllers.RegisterTransactionRoutes(r, s.services)
	controllers.RegisterNotificationRoutes(r, s.services)
	controllers.RegisterDetectionRoutes(r, s.services)
	controllers.RegisterCatalogRoutes(r, s.services)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(context.Background(), propagation.HeaderCarrier(h))
		traceCtx, span := tracer.Start(traceCtx, string(ctx.Method())+" "+string(ctx.Path()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.method", string(ctx.Method()))),
		)
		defer func() {
			code := ctx.Response.StatusCode()
			span.SetAttributes(attribute.Int("http.status_code", code))
			if code >= fasthttp.StatusInternalServerError {
				span.SetStatus(codes.Error, fasthttp.StatusMessage(code))
			}
			span.End()
		}()
		ctx.SetUserValue(controllers.TraceCtxKey, traceCtx)

		// Auth check
		if !isPublicRoute(ctx) {
			accessToken := strings.TrimPrefix(string(ctx.Request.Header.Peek("Authorization")), "Bearer ")
			u, err := s.services.User.ResolveSession(traceCtx, accessToken)
			if err != nil {
				response.NewResponse[any](traceCtx, "Authentication required", nil).WithError(err).Write(ctx)
				return
			}

			// Store the user for downstream handlers
			ctx.SetUserValue(controllers.UserKey, u)
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Int("status", ctx.Response.StatusCode()), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	return publicRoutes[string(ctx.Path())]
}
