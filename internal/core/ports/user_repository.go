package ports

import (
	"context"
	"time"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// UserRepository defines the persistence operations of the credential store.
// Every method is atomic for the single document it touches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update persists the profile fields (name, email, mobile, role, profile image).
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of users ordered by creation time and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)

	// SetResetToken stores the reset token hash and its expiry together,
	// replacing any pending reset.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// RedeemResetToken finds the user whose reset hash equals tokenHash and whose
	// expiry is after now, sets passwordHash and clears both reset fields in one
	// update. Returns domain.ErrInvalidResetToken when no user matches.
	RedeemResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error)
	// SetPassword replaces the stored hash and role and clears any pending
	// reset, used by admin provisioning.
	SetPassword(ctx context.Context, id, passwordHash, role string) error
}
