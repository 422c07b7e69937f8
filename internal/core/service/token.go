package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// TokenTTL is the lifetime of an issued bearer token.
const TokenTTL = 7 * 24 * time.Hour

// ErrMissingJWTSecret is returned when the signing secret is empty.
var ErrMissingJWTSecret = errors.New("jwt secret is not configured")

// TokenIssuer mints and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	// Verify returns the user id carried by token, or one of
	// domain.ErrTokenMissing, domain.ErrTokenInvalid, domain.ErrTokenExpired.
	Verify(token string) (string, error)
}

// tokenClaims is the signed payload: {"id": <user id>, "iat": ..., "exp": ...}.
type tokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager implements TokenIssuer with HS256 JWTs.
type TokenManager struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithTokenClock replaces the wall clock used for iat/exp and validation.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager returns a TokenManager signing with secret.
func NewTokenManager(secret []byte, opts ...TokenOption) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, ErrMissingJWTSecret
	}

	m := &TokenManager{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	return m, nil
}

// Issue signs a token for userID that expires TokenTTL from now.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry. Library errors are collapsed
// into the domain classification.
func (m *TokenManager) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrTokenMissing
	}

	claims := &tokenClaims{}
	_, err := m.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if claims.UserID == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}
