package response_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/curaious/finca/internal/api/response"
	"github.com/curaious/finca/internal/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   *struct {
		Error string `json:"error"`
	} `json:"error"`
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func TestWriteSuccess(t *testing.T) {
	var ctx fasthttp.RequestCtx

	response.NewResponse(context.Background(), "Farm created", map[string]any{"name": "La Esperanza"}).
		WithStatus(http.StatusCreated).
		Write(&ctx)

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	env := decode(t, &ctx)
	assert.Equal(t, response.StatusSuccess, env.Status)
	assert.Equal(t, "Farm created", env.Message)
	assert.Equal(t, "La Esperanza", env.Data["name"])
	assert.Nil(t, env.Error)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not_found", fmt.Errorf("%w: plot not found", perrors.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: missing permission", perrors.ErrUnauthorized), http.StatusForbidden},
		{"unauthenticated", fmt.Errorf("%w: no token", perrors.ErrUnauthenticated), http.StatusUnauthorized},
		{"validation", fmt.Errorf("%w: bad date", perrors.ErrValidation), http.StatusBadRequest},
		{"invalid_state", fmt.Errorf("%w: inactive", perrors.ErrInvalidState), http.StatusBadRequest},
		{"internal", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx

			r := response.NewResponse[any](context.Background(), "Request failed", nil).WithError(tt.err)
			assert.Equal(t, tt.wantStatus, r.HTTPStatus())
			r.Write(&ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			env := decode(t, &ctx)
			assert.Equal(t, response.StatusError, env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.err.Error(), env.Error.Error)
		})
	}
}
