package api

import (
	"strings"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   *struct {
		Error string `json:"error"`
	} `json:"error"`
}

type client struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func (c *client) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(raw)
	}

	c.handler(&ctx)
	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

func call[T any](c *client, method, path, token string, body any, wantStatus int) T {
	c.t.Helper()

	code, raw := c.do(method, path, token, body)
	require.Equal(c.t, wantStatus, code, string(raw))

	var env envelope[T]
	require.NoError(c.t, json.Unmarshal(raw, &env))
	if wantStatus < 300 {
		assert.Equal(c.t, "success", env.Status)
	} else {
		assert.Equal(c.t, "error", env.Status)
		require.NotNil(c.t, env.Error)
	}
	return env.Data
}

type idOnly struct {
	ID uuid.UUID `json:"id"`
}

type session struct {
	Token string `json:"token"`
	User  idOnly `json:"user"`
}

func newClient(t *testing.T) (*client, *testutil.Env) {
	env := testutil.NewEnv()
	s := &Server{services: env.Services()}
	return &client{t: t, handler: s.initNewRoutes()}, env
}

func TestAPI_FarmLifecycle(t *testing.T) {
	c, env := newClient(t)

	// sign up over HTTP, the verification code only travels by mail
	call[idOnly](c, "POST", "/api/v1/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "cafetal-2024",
	}, fasthttp.StatusCreated)
	require.NotEmpty(t, env.Mailer.Mails)
	mail := env.Mailer.Mails[len(env.Mailer.Mails)-1]
	code := mail.Body[strings.LastIndex(mail.Body, " ")+1:]

	call[any](c, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "cafetal-2024",
	}, fasthttp.StatusUnauthorized)

	call[idOnly](c, "POST", "/api/v1/auth/verify", "", map[string]string{"token": code}, fasthttp.StatusOK)

	owner := call[session](c, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "cafetal-2024",
	}, fasthttp.StatusOK)
	require.NotEmpty(t, owner.Token)

	call[any](c, "GET", "/api/v1/auth/me", "", nil, fasthttp.StatusUnauthorized)
	me := call[idOnly](c, "GET", "/api/v1/auth/me", owner.Token, nil, fasthttp.StatusOK)
	assert.Equal(t, owner.User.ID, me.ID)

	call[any](c, "POST", "/api/v1/farms", owner.Token, map[string]any{"name": "", "area_hectares": 3}, fasthttp.StatusBadRequest)
	f := call[idOnly](c, "POST", "/api/v1/farms", owner.Token, map[string]any{
		"name": "La Esperanza", "area_hectares": 12.5,
	}, fasthttp.StatusCreated)
	farmPath := "/api/v1/farms/" + f.ID.String()

	// invite a second user as field operator and let them accept
	carla := env.RegisterActiveUser(t, "Carla", "carla@example.com")
	operator := call[session](c, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "carla@example.com", "password": "cafetal-2024",
	}, fasthttp.StatusOK)

	call[any](c, "GET", farmPath, operator.Token, nil, fasthttp.StatusForbidden)

	inv := call[idOnly](c, "POST", farmPath+"/invitations", owner.Token, map[string]any{
		"email":             carla.Email,
		"suggested_role_id": env.Store.RoleID(permission.RoleOperator),
	}, fasthttp.StatusCreated)

	mine := call[[]idOnly](c, "GET", "/api/v1/me/invitations", operator.Token, nil, fasthttp.StatusOK)
	require.Len(t, mine, 1)
	assert.Equal(t, inv.ID, mine[0].ID)

	call[any](c, "POST", "/api/v1/invitations/"+inv.ID.String()+"/accept", owner.Token, nil, fasthttp.StatusForbidden)
	call[idOnly](c, "POST", "/api/v1/invitations/"+inv.ID.String()+"/accept", operator.Token, nil, fasthttp.StatusOK)
	call[any](c, "POST", "/api/v1/invitations/"+inv.ID.String()+"/accept", operator.Token, nil, fasthttp.StatusBadRequest)

	call[idOnly](c, "GET", farmPath, operator.Token, nil, fasthttp.StatusOK)

	// operators read plots but cannot create them
	plotBody := map[string]any{"name": "Lote 1", "coffee_variety": "Castillo", "area_hectares": 2}
	call[any](c, "POST", farmPath+"/plots", operator.Token, plotBody, fasthttp.StatusForbidden)
	p := call[idOnly](c, "POST", farmPath+"/plots", owner.Token, plotBody, fasthttp.StatusCreated)
	call[any](c, "POST", farmPath+"/plots", owner.Token, plotBody, fasthttp.StatusBadRequest)

	plots := call[[]idOnly](c, "GET", farmPath+"/plots", operator.Token, nil, fasthttp.StatusOK)
	require.Len(t, plots, 1)
	assert.Equal(t, p.ID, plots[0].ID)

	type taskView struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	created := call[taskView](c, "POST", "/api/v1/tasks", owner.Token, map[string]any{
		"plot_id":               p.ID,
		"cultural_work_type_id": env.Store.WorkTypeID("Poda"),
		"collaborator_user_id":  carla.ID,
		"task_date":             "2024-06-28",
	}, fasthttp.StatusCreated)
	assert.Equal(t, status.TaskPending, created.Status)

	assigned := call[[]taskView](c, "GET", "/api/v1/me/tasks", operator.Token, nil, fasthttp.StatusOK)
	require.Len(t, assigned, 1)

	done := call[taskView](c, "POST", "/api/v1/tasks/"+created.ID.String()+"/complete", operator.Token, nil, fasthttp.StatusOK)
	assert.Equal(t, status.TaskDone, done.Status)

	// operators never see the ledger
	call[any](c, "GET", "/api/v1/plots/"+p.ID.String()+"/transactions", operator.Token, nil, fasthttp.StatusForbidden)
	call[[]idOnly](c, "GET", "/api/v1/plots/"+p.ID.String()+"/transactions", owner.Token, nil, fasthttp.StatusOK)

	type notificationView struct {
		ID   uuid.UUID `json:"id"`
		Kind string    `json:"kind"`
	}
	notes := call[[]notificationView](c, "GET", "/api/v1/me/notifications", owner.Token, nil, fasthttp.StatusOK)
	require.NotEmpty(t, notes)
	call[any](c, "POST", "/api/v1/notifications/"+notes[0].ID.String()+"/read", operator.Token, nil, fasthttp.StatusForbidden)
	call[notificationView](c, "POST", "/api/v1/notifications/"+notes[0].ID.String()+"/read", owner.Token, nil, fasthttp.StatusOK)

	// removing the collaborator closes the farm to them
	call[any](c, "DELETE", farmPath+"/collaborators/"+carla.ID.String(), operator.Token, nil, fasthttp.StatusBadRequest)
	call[any](c, "DELETE", farmPath+"/collaborators/"+owner.User.ID.String(), operator.Token, nil, fasthttp.StatusForbidden)
	call[any](c, "DELETE", farmPath+"/collaborators/"+carla.ID.String(), owner.Token, nil, fasthttp.StatusOK)
	call[any](c, "GET", farmPath+"/plots", operator.Token, nil, fasthttp.StatusForbidden)

	call[any](c, "GET", "/api/v1/plots/not-a-uuid", owner.Token, nil, fasthttp.StatusBadRequest)
	call[any](c, "DELETE", farmPath, owner.Token, nil, fasthttp.StatusOK)
	call[any](c, "GET", farmPath, owner.Token, nil, fasthttp.StatusNotFound)
}
