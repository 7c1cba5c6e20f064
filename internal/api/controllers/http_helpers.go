package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/curaious/finca/internal/api/response"
	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/user"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// UserKey is the user value under which the auth middleware stores the
// authenticated *user.User.
const UserKey = "currentUser"

// TraceCtxKey holds the context extracted from incoming trace headers
const TraceCtxKey = "traceCtx"

const requestTimeout = 30 * time.Second

var validate = validator.New()

var errNoUser = fmt.Errorf("%w: no authenticated user", perrors.ErrUnauthenticated)

// requestContext returns the context handlers pass downstream. fasthttp does
// not provide a standard context, so we start from the propagated trace
// context when there is one and bound it with a timeout.
func requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	base := context.Background()
	if traceCtx, ok := ctx.UserValue(TraceCtxKey).(context.Context); ok {
		base = traceCtx
	}
	return context.WithTimeout(base, requestTimeout)
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return perrors.NewErrInvalidRequest("Invalid request body", errors.New("request body is empty"))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return perrors.NewErrInvalidRequest("Invalid request body", err)
	}

	if err := validate.Struct(target); err != nil {
		return perrors.NewErrInvalidRequest("Validation failed", err)
	}
	return nil
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func writeCreated(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).WithStatus(fasthttp.StatusCreated).Write(ctx)
}

func currentUser(ctx *fasthttp.RequestCtx) (*user.User, error) {
	u, ok := ctx.UserValue(UserKey).(*user.User)
	if !ok || u == nil {
		return nil, errNoUser
	}
	return u, nil
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, perrors.NewErrInvalidRequest("Invalid "+key, err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, perrors.NewErrInvalidRequest("Invalid "+key, err)
	}
	return id, nil
}

type userHandler func(ctx *fasthttp.RequestCtx, stdCtx context.Context, u *user.User)

// withUser resolves the authenticated user before calling h
func withUser(h userHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx, cancel := requestContext(ctx)
		defer cancel()

		u, err := currentUser(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Authentication required", err)
			return
		}

		h(ctx, stdCtx, u)
	}
}
