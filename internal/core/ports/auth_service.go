package ports

import (
	"context"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
}

// AuthResult is returned by operations that authenticate a user.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate verifies a bearer token and resolves it to a current user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// RequestPasswordReset stores a fresh reset token for email, hands the reset
	// link to the mailer and returns the unhashed token.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// UpdateProfileInput carries the optional fields of a profile update. Empty
// strings leave the stored value unchanged.
type UpdateProfileInput struct {
	Name   string
	Email  string
	Mobile string
	Role   string
	// Image is the raw profile picture, nil when none was uploaded.
	Image []byte
}

// ListUsersResult is one page of the user listing.
type ListUsersResult struct {
	Users      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type UserService interface {
	Profile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, id string, in UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*ListUsersResult, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// EnsureAdmin creates an admin account or promotes and re-keys an existing one.
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error)
}
