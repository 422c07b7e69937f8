package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// MaxProfileImageBytes caps an uploaded profile picture.
	MaxProfileImageBytes = 5 << 20
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type userService struct {
	repo   ports.UserRepository
	images ports.ImageStore
	hasher PasswordHasher
	log    zerolog.Logger
	clock
}

// NewUserService returns a UserService implementation. images may be nil, in
// which case profile updates carrying an image fail with
// domain.ErrImageStorageUnavailable.
func NewUserService(
	repo ports.UserRepository,
	images ports.ImageStore,
	hasher PasswordHasher,
	log zerolog.Logger,
	opts ...Option,
) ports.UserService {
	return &userService{
		repo:   repo,
		images: images,
		hasher: hasher,
		log:    log,
		clock:  newClock(opts),
	}
}

func (s *userService) Profile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.User, id string, in ports.UpdateProfileInput) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}
	isAdmin := actor.Role == domain.RoleAdmin
	if actor.ID != id && !isAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Role != "" {
		if !isAdmin {
			return nil, domain.ErrForbidden
		}
		if !domain.ValidRole(in.Role) {
			return nil, domain.NewValidationError("role", "role must be one of: admin user")
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(in.Image) > 0 {
		url, err := s.storeImage(ctx, user.ID, in.Image)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = url
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := domain.NormalizeEmail(in.Email); email != "" {
		user.Email = email
	}
	if mobile := strings.TrimSpace(in.Mobile); mobile != "" {
		user.Mobile = mobile
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("profile updated")
	return updated.Public(), nil
}

func (s *userService) storeImage(ctx context.Context, userID string, data []byte) (string, error) {
	if s.images == nil {
		return "", domain.ErrImageStorageUnavailable
	}
	if len(data) > MaxProfileImageBytes {
		return "", domain.NewValidationError("image", "image must be at most 5 MiB")
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", domain.NewValidationError("image", "image must be a JPEG, PNG, GIF or WebP file")
	}

	url, err := s.images.PutProfileImage(ctx, userID, data, mt.String())
	if err != nil {
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	return url, nil
}

func (s *userService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	public := make([]*domain.User, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	return &ports.ListUsersResult{
		Users:      public,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.Profile(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, false, domain.NewValidationError("email", "email is required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Administrator"
		}
		now := s.now().UTC()
		created, err := s.repo.Create(ctx, &domain.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return nil, false, err
		}
		return created.Public(), true, nil
	case err != nil:
		return nil, false, err
	}

	if err := s.repo.SetPassword(ctx, existing.ID, hash, domain.RoleAdmin); err != nil {
		return nil, false, err
	}
	existing.Role = domain.RoleAdmin
	return existing.Public(), false, nil
}
