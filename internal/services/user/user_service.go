package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/curaious/finca/internal/perrors"
	"github.com/curaious/finca/internal/services/status"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", perrors.ErrUnauthenticated)
	ErrUserNotActive      = fmt.Errorf("%w: user is not active", perrors.ErrUnauthenticated)
	ErrWeakPassword       = fmt.Errorf("%w: password must have at least 8 characters", perrors.ErrValidation)
)

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash string, statusID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type StatusRegistry interface {
	Get(ctx context.Context, name, typeName string) (*status.Status, error)
}

type TokenStore interface {
	Save(ctx context.Context, purpose, token string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, purpose, token string) (uuid.UUID, error)
}

// Sessions issues and verifies session tokens
type Sessions interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
	VerifyToken(token string) (uuid.UUID, error)
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

type Options struct {
	PasswordResetTTL time.Duration
	VerificationTTL  time.Duration
}

type UserService struct {
	repo     Repository
	statuses StatusRegistry
	tokens   TokenStore
	sessions Sessions
	mailer   Mailer
	opts     Options
}

func NewUserService(repo Repository, statuses StatusRegistry, tokens TokenStore, sessions Sessions, mailer Mailer, opts Options) *UserService {
	if opts.PasswordResetTTL == 0 {
		opts.PasswordResetTTL = 15 * time.Minute
	}
	if opts.VerificationTTL == 0 {
		opts.VerificationTTL = 48 * time.Hour
	}
	return &UserService{repo: repo, statuses: statuses, tokens: tokens, sessions: sessions, mailer: mailer, opts: opts}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates an unverified user and sends a verification token.
// The token is also returned so callers without a mail worker can show it.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*User, string, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", perrors.ErrValidation)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to validate email: %w", err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	unverified, err := s.statuses.Get(ctx, status.Unverified, status.TypeUser)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.Create(ctx, name, email, hash, unverified.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := newToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	if err := s.tokens.Save(ctx, PurposeVerification, token, u.ID, s.opts.VerificationTTL); err != nil {
		return nil, "", err
	}

	s.sendMail(ctx, Mail{
		To:      u.Email,
		Subject: "Verifica tu cuenta",
		Body:    "Tu código de verificación es: " + token,
	})

	return u, token, nil
}

// Verify consumes a verification token and activates the user
func (s *UserService) Verify(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Consume(ctx, PurposeVerification, token)
	if err != nil {
		return nil, err
	}

	active, err := s.statuses.Get(ctx, status.Active, status.TypeUser)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, userID, active.ID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// Login checks credentials of an Active user and issues a session token
func (s *UserService) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if u.StatusName != status.Active {
		return nil, "", ErrUserNotActive
	}

	token, err := s.sessions.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return u, token, nil
}

// ResolveSession maps a session token to its Active user. Any failure is
// reported as perrors.ErrUnauthenticated.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing session token", perrors.ErrUnauthenticated)
	}

	userID, err := s.sessions.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrUnauthenticated, err)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown user", perrors.ErrUnauthenticated)
		}
		return nil, err
	}

	if u.StatusName != status.Active {
		return nil, ErrUserNotActive
	}

	return u, nil
}

// RequestPasswordReset stores a reset token for the user owning email. An
// unknown email is not an error, so the endpoint cannot be used to probe
// accounts; the returned token is empty in that case.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.tokens.Save(ctx, PurposePasswordReset, token, u.ID, s.opts.PasswordResetTTL); err != nil {
		return "", err
	}

	s.sendMail(ctx, Mail{
		To:      u.Email,
		Subject: "Restablece tu contraseña",
		Body:    "Tu código para restablecer la contraseña es: " + token,
	})

	return token, nil
}

// ResetPassword consumes a reset token and replaces the password
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	userID, err := s.tokens.Consume(ctx, PurposePasswordReset, token)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) sendMail(ctx context.Context, mail Mail) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		slog.Warn("Unable to hand mail to the mail worker", slog.String("to", mail.To), slog.Any("error", err))
	}
}
