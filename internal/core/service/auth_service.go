package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/api/metrics"
	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

// Option customises the services of this package.
type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock replaces the wall clock, used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// authService implements registration, login, token authentication and the
// password reset lifecycle.
type authService struct {
	repo      ports.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	mailer    ports.Mailer
	clientURL string
	log       zerolog.Logger
	clock

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService returns an AuthService implementation. clientURL is the base
// of the reset link sent by email.
func NewAuthService(
	repo ports.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer ports.Mailer,
	clientURL string,
	log zerolog.Logger,
	opts ...Option,
) ports.AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: clientURL,
		log:       log,
		clock:     newClock(opts),
	}
}

func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	}
	if email == "" {
		verr.Add("email", "email is required")
	}
	if in.Password == "" {
		verr.Add("password", "password is required")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		Mobile:       strings.TrimSpace(in.Mobile),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")

	return &ports.AuthResult{Token: token, User: created.Public()}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Spend a bcrypt comparison anyway so unknown emails take as long as
		// wrong passwords.
		s.hasher.Verify(password, s.dummy())
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.AuthResult{Token: token, User: user.Public()}, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equaliser")
		if err != nil {
			s.log.Warn().Err(err).Msg("could not prepare dummy password hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// A well-signed token for a deleted account is no better than a forged one.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user.Public(), nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.NewValidationError("email", "email is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("requested", "failure").Inc()
		}
		return "", err
	}

	token, hash, err := generateResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := s.now().UTC().Add(ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	msg := ports.ResetEmail{
		To:       user.Email,
		Name:     user.Name,
		ResetURL: resetLink(s.clientURL, token),
	}
	if err := s.mailer.SendPasswordReset(ctx, msg); err != nil {
		return "", fmt.Errorf("send reset email: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Time("expires_at", expiresAt).Msg("password reset requested")

	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user, err := s.repo.RedeemResetToken(ctx, hashResetToken(token), s.now().UTC(), hash)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			metrics.PasswordResetsTotal.WithLabelValues("redeemed", "failure").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("redeemed", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}
