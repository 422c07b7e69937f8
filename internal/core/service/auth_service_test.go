package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

type authFixture struct {
	svc    ports.AuthService
	repo   *stubUserRepo
	mailer *recordingMailer
	tokens *TokenManager
	clock  *fixedClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clk := newFixedClock()
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := newTestTokenManager(t, clk)
	repo := newStubUserRepo()
	mailer := &recordingMailer{}

	svc := NewAuthService(repo, hasher, tokens, mailer, "http://localhost:3000/", testLog, WithClock(clk.Now))
	return &authFixture{svc: svc, repo: repo, mailer: mailer, tokens: tokens, clock: clk}
}

func (f *authFixture) register(t *testing.T, email, password string) *ports.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return res
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)

	res := f.register(t, "Alice@Example.com ", "pw123")

	require.NotNil(t, res.User)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.Empty(t, res.User.PasswordHash, "returned user must not carry the hash")

	stored := f.repo.get(res.User.ID)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")))

	id, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "pw123")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice Again", Email: "ALICE@example.com", Password: "other",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.c"})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "password")
	assert.NotContains(t, verr.Fields, "email")
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "pw123")

	t.Run("correct password", func(t *testing.T) {
		res, err := f.svc.Login(context.Background(), "alice@example.com", "pw123")
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), "  ALICE@example.COM", "pw123")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPw := f.svc.Login(context.Background(), "alice@example.com", "wrong")
		_, unknown := f.svc.Login(context.Background(), "bob@example.com", "pw123")

		assert.ErrorIs(t, wrongPw, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
		assert.Equal(t, wrongPw.Error(), unknown.Error())
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	reg := f.register(t, "alice@example.com", "pw123")

	user, err := f.svc.Authenticate(context.Background(), reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, f.repo.Delete(context.Background(), reg.User.ID))
		_, err := f.svc.Authenticate(context.Background(), reg.Token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		g := newAuthFixture(t)
		other := g.register(t, "carol@example.com", "pw123")
		g.clock.Advance(TokenTTL + time.Second)
		_, err := g.svc.Authenticate(context.Background(), other.Token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrTokenMissing)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("stores only the hash and mails the link", func(t *testing.T) {
		f := newAuthFixture(t)
		reg := f.register(t, "alice@example.com", "pw123")

		token, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Len(t, token, 64)

		stored := f.repo.get(reg.User.ID)
		assert.Equal(t, hashResetToken(token), stored.ResetTokenHash)
		assert.NotEqual(t, token, stored.ResetTokenHash)
		require.NotNil(t, stored.ResetTokenExpiry)
		assert.Equal(t, f.clock.Now().Add(ResetTokenTTL), *stored.ResetTokenExpiry)

		require.Len(t, f.mailer.sent, 1)
		msg := f.mailer.sent[0]
		assert.Equal(t, "alice@example.com", msg.To)
		assert.Equal(t, "http://localhost:3000/reset-password/"+token, msg.ResetURL)
	})

	t.Run("redeem is single use", func(t *testing.T) {
		f := newAuthFixture(t)
		reg := f.register(t, "alice@example.com", "pw123")

		token, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)

		require.NoError(t, f.svc.ResetPassword(ctx, token, "newpw"))

		stored := f.repo.get(reg.User.ID)
		assert.Empty(t, stored.ResetTokenHash)
		assert.Nil(t, stored.ResetTokenExpiry)

		_, err = f.svc.Login(ctx, "alice@example.com", "newpw")
		require.NoError(t, err)
		_, err = f.svc.Login(ctx, "alice@example.com", "pw123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		err = f.svc.ResetPassword(ctx, token, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	})

	t.Run("expires after one hour", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice@example.com", "pw123")

		token, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)

		f.clock.Advance(ResetTokenTTL + time.Minute)
		err = f.svc.ResetPassword(ctx, token, "newpw")
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

		_, err = f.svc.Login(ctx, "alice@example.com", "pw123")
		assert.NoError(t, err, "old password must keep working")
	})

	t.Run("new request replaces the pending one", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice@example.com", "pw123")

		first, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)
		second, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		assert.ErrorIs(t, f.svc.ResetPassword(ctx, first, "newpw"), domain.ErrInvalidResetToken)
		assert.NoError(t, f.svc.ResetPassword(ctx, second, "newpw"))
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.RequestPasswordReset(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice@example.com", "pw123")
		_, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.ResetPassword(ctx, strings.Repeat("0", 64), "newpw"), domain.ErrInvalidResetToken)
		assert.ErrorIs(t, f.svc.ResetPassword(ctx, "", "newpw"), domain.ErrInvalidResetToken)
	})

	t.Run("mailer failure surfaces", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice@example.com", "pw123")
		f.mailer.err = errors.New("smtp down")

		_, err := f.svc.RequestPasswordReset(ctx, "alice@example.com")
		assert.ErrorContains(t, err, "smtp down")
	})
}
