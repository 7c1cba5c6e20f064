package authenticator

import (
	"errors"
	"fmt"
	"time"

	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/config"
	"github.com/curaious/finca/internal/perrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "finca"

var (
	ErrMissingSecret = fmt.Errorf("%w: JWT_SECRET is not set", perrors.ErrConfiguration)
	ErrInvalidToken  = fmt.Errorf("%w: invalid session token", perrors.ErrUnauthenticated)
)

// Claims carried by a session token. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 session tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, ErrMissingSecret
	}

	return NewWithSecret([]byte(conf.JWT_SECRET), conf.JWT_TTL, clock.Real()), nil
}

func NewWithSecret(secret []byte, ttl time.Duration, clk clock.Clock) *Authenticator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{secret: secret, ttl: ttl, clock: clk}
}

func (a *Authenticator) GenerateToken(userID uuid.UUID, email string) (string, error) {
	now := a.clock.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, issuer and expiry and returns the user id.
func (a *Authenticator) VerifyToken(token string) (uuid.UUID, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.clock.Now),
	)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}
	return userID, nil
}
