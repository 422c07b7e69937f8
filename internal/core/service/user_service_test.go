package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newUserFixture(t *testing.T, images ports.ImageStore) (ports.UserService, *stubUserRepo) {
	t.Helper()
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	repo := newStubUserRepo()
	return NewUserService(repo, images, hasher, testLog, WithClock(newFixedClock().Now)), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, email, role string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Name: "Seed", Email: email, Role: role, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func TestUserService_Profile(t *testing.T) {
	svc, repo := newUserFixture(t, nil)
	u := seedUser(t, repo, "alice@example.com", domain.RoleUser)

	got, err := svc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("self update", func(t *testing.T) {
		svc, repo := newUserFixture(t, nil)
		u := seedUser(t, repo, "alice@example.com", domain.RoleUser)

		got, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Name: " Alice B ", Mobile: "555"})
		require.NoError(t, err)
		assert.Equal(t, "Alice B", got.Name)
		assert.Equal(t, "555", got.Mobile)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		svc, repo := newUserFixture(t, nil)
		a := seedUser(t, repo, "a@example.com", domain.RoleUser)
		b := seedUser(t, repo, "b@example.com", domain.RoleUser)

		_, err := svc.UpdateProfile(ctx, a, b.ID, ports.UpdateProfileInput{Name: "x"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("role change needs admin", func(t *testing.T) {
		svc, repo := newUserFixture(t, nil)
		u := seedUser(t, repo, "a@example.com", domain.RoleUser)
		admin := seedUser(t, repo, "root@example.com", domain.RoleAdmin)

		_, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		got, err := svc.UpdateProfile(ctx, admin, u.ID, ports.UpdateProfileInput{Role: domain.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, got.Role)

		_, err = svc.UpdateProfile(ctx, admin, u.ID, ports.UpdateProfileInput{Role: "root"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("image upload", func(t *testing.T) {
		store := &stubImageStore{}
		svc, repo := newUserFixture(t, store)
		u := seedUser(t, repo, "a@example.com", domain.RoleUser)

		got, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Image: pngHeader})
		require.NoError(t, err)
		assert.Equal(t, u.ID, store.userID)
		assert.Equal(t, "image/png", store.contentType)
		assert.Contains(t, got.ProfileImage, u.ID+"_profile")
	})

	t.Run("non-image upload is rejected", func(t *testing.T) {
		store := &stubImageStore{}
		svc, repo := newUserFixture(t, store)
		u := seedUser(t, repo, "a@example.com", domain.RoleUser)

		_, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Image: []byte("just some text")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, store.userID)
	})

	t.Run("oversized upload is rejected", func(t *testing.T) {
		store := &stubImageStore{}
		svc, repo := newUserFixture(t, store)
		u := seedUser(t, repo, "a@example.com", domain.RoleUser)

		big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxProfileImageBytes)...)
		_, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Image: big})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("no image store configured", func(t *testing.T) {
		svc, repo := newUserFixture(t, nil)
		u := seedUser(t, repo, "a@example.com", domain.RoleUser)

		_, err := svc.UpdateProfile(ctx, u, u.ID, ports.UpdateProfileInput{Image: pngHeader})
		assert.ErrorIs(t, err, domain.ErrImageStorageUnavailable)
	})
}

func TestUserService_List(t *testing.T) {
	svc, repo := newUserFixture(t, nil)
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"} {
		seedUser(t, repo, e, domain.RoleUser)
	}

	res, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.Limit)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Users, 2)
	assert.Equal(t, "c@x.io", res.Users[0].Email)

	res, err = svc.List(context.Background(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, maxPageSize, res.Limit)

	res, err = svc.List(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, res.Limit)
	assert.Equal(t, 1, res.TotalPages)
}

func TestUserService_Delete(t *testing.T) {
	svc, repo := newUserFixture(t, nil)
	u := seedUser(t, repo, "a@example.com", domain.RoleUser)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), u.ID), domain.ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t, nil)

	created, isNew, err := svc.EnsureAdmin(ctx, "", "Root@Example.com", "s3cret")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, domain.RoleAdmin, created.Role)
	assert.Equal(t, "root@example.com", created.Email)

	u := seedUser(t, repo, "promote@example.com", domain.RoleUser)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "pending-hash", time.Now().Add(time.Hour)))
	promoted, isNew, err := svc.EnsureAdmin(ctx, "", "promote@example.com", "n3w")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, u.ID, promoted.ID)

	stored := repo.get(u.ID)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("n3w")))
	assert.Empty(t, stored.ResetTokenHash, "promotion must drop a pending reset")
	assert.Nil(t, stored.ResetTokenExpiry)

	_, _, err = svc.EnsureAdmin(ctx, "", "x@example.com", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
