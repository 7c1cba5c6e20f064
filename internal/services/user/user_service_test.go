package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/user"
	"github.com/curaious/finca/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	env.RegisterActiveUser(t, "Ana", "ana@example.com")

	tests := []struct {
		name    string
		req     user.RegisterRequest
		wantErr error
	}{
		{"duplicate_email_any_case", user.RegisterRequest{Name: "Otra", Email: "ANA@example.com", Password: "cafetal-2024"}, user.ErrEmailAlreadyExists},
		{"weak_password", user.RegisterRequest{Name: "Beto", Email: "beto@example.com", Password: "corta"}, user.ErrWeakPassword},
		{"blank_name", user.RegisterRequest{Name: "  ", Email: "beto@example.com", Password: "cafetal-2024"}, perrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, _, err := env.User.Register(ctx, &req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	u, token, err := env.User.Register(ctx, &user.RegisterRequest{Name: " Beto ", Email: " Beto@Example.com", Password: "cafetal-2024"})
	require.NoError(t, err)
	assert.Equal(t, "Beto", u.Name)
	assert.Equal(t, "beto@example.com", u.Email)
	assert.Equal(t, status.Unverified, u.StatusName)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "cafetal-2024", u.PasswordHash)

	last := env.Mailer.Mails[len(env.Mailer.Mails)-1]
	assert.Equal(t, "beto@example.com", last.To)
	assert.True(t, strings.HasSuffix(last.Body, token))
}

func TestUserService_VerifyAndLogin(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()

	u, token, err := env.User.Register(ctx, &user.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "cafetal-2024"})
	require.NoError(t, err)

	_, _, err = env.User.Login(ctx, "ana@example.com", "cafetal-2024")
	assert.ErrorIs(t, err, user.ErrUserNotActive)

	_, err = env.User.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, user.ErrTokenInvalid)

	verified, err := env.User.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, status.Active, verified.StatusName)

	_, err = env.User.Verify(ctx, token)
	assert.ErrorIs(t, err, user.ErrTokenInvalid)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"wrong_password", "ana@example.com", "cafetal-2025", user.ErrInvalidCredentials},
		{"unknown_email", "nadie@example.com", "cafetal-2024", user.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.User.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, perrors.ErrUnauthenticated)
		})
	}

	logged, session, err := env.User.Login(ctx, "ana@example.com", "cafetal-2024")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	resolved, err := env.User.ResolveSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	for _, bad := range []string{"", "garbage"} {
		_, err = env.User.ResolveSession(ctx, bad)
		assert.ErrorIs(t, err, perrors.ErrUnauthenticated)
	}
}

func TestUserService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	env.RegisterActiveUser(t, "Ana", "ana@example.com")

	token, err := env.User.RequestPasswordReset(ctx, "nadie@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	mails := len(env.Mailer.Mails)
	token, err = env.User.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, env.Mailer.Mails, mails+1)

	assert.ErrorIs(t, env.User.ResetPassword(ctx, token, "corta"), user.ErrWeakPassword)
	require.NoError(t, env.User.ResetPassword(ctx, token, "nueva-clave-99"))
	assert.ErrorIs(t, env.User.ResetPassword(ctx, token, "otra-clave-99"), user.ErrTokenInvalid)

	_, _, err = env.User.Login(ctx, "ana@example.com", "cafetal-2024")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, _, err = env.User.Login(ctx, "ana@example.com", "nueva-clave-99")
	require.NoError(t, err)
}
