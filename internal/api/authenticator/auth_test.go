package authenticator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/curaious/finca/internal/api/authenticator"
	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/config"
	"github.com/curaious/finca/internal/perrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := authenticator.New(&config.Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrConfiguration))

	a, err := authenticator.New(&config.Config{JWT_SECRET: "s3cret", JWT_TTL: time.Hour})
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestTokenRoundTrip(t *testing.T) {
	clk := &clock.Fixed{T: time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)}
	a := authenticator.NewWithSecret([]byte("s3cret"), time.Hour, clk)
	userID := uuid.New()

	token, err := a.GenerateToken(userID, "ana@example.com")
	require.NoError(t, err)

	got, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyTokenRejects(t *testing.T) {
	clk := &clock.Fixed{T: time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)}
	a := authenticator.NewWithSecret([]byte("s3cret"), time.Hour, clk)

	valid, err := a.GenerateToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	other := authenticator.NewWithSecret([]byte("another"), time.Hour, clk)
	foreign, err := other.GenerateToken(uuid.New(), "ana@example.com")
	require.NoError(t, err)

	noIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(clk.T.Add(time.Hour)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		advance time.Duration
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong_secret", token: foreign},
		{name: "missing_issuer", token: noIssuer},
		{name: "expired", token: valid, advance: 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := clk.T
			clk.T = clk.T.Add(tt.advance)
			defer func() { clk.T = start }()

			_, err := a.VerifyToken(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, authenticator.ErrInvalidToken))
			assert.Equal(t, perrors.ErrCodeUnauthorized, perrors.CodeOf(err))
		})
	}
}
