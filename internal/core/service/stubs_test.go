package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

var testLog = zerolog.Nop()

// fixedClock is a settable clock shared by a test and the code under test.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.ResetTokenExpiry != nil {
		exp := *u.ResetTokenExpiry
		clone.ResetTokenExpiry = &exp
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%03d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Mobile = user.Mobile
	stored.Role = user.Role
	stored.ProfileImage = user.ProfileImage
	stored.UpdatedAt = user.UpdatedAt
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := (page - 1) * limit
	out := []*domain.User{}
	for i := start; i < len(ids) && i < start+limit; i++ {
		out = append(out, cloneUser(r.users[ids[i]]))
	}
	return out, int64(len(ids)), nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiry = &expiresAt
	return nil
}

func (r *stubUserRepo) RedeemResetToken(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash = ""
			u.ResetTokenExpiry = nil
			u.UpdatedAt = now
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, passwordHash, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.Role = role
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	return nil
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id])
}

// recordingMailer captures reset emails instead of sending them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.ResetEmail
	err  error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, msg ports.ResetEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubImageStore struct {
	userID      string
	contentType string
	size        int
}

func (s *stubImageStore) PutProfileImage(_ context.Context, userID string, data []byte, contentType string) (string, error) {
	s.userID = userID
	s.contentType = contentType
	s.size = len(data)
	return "https://cdn.example.com/profile_images/" + userID + "_profile", nil
}

type stubRequestRepo struct {
	seq      int
	requests []*domain.Request
	last     ports.RequestFilter
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.Request) error {
	r.seq++
	req.ID = fmt.Sprintf("r%03d", r.seq)
	copy := *req
	r.requests = append(r.requests, &copy)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.Request, error) {
	for _, req := range r.requests {
		if req.ID == id {
			copy := *req
			return &copy, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) Delete(_ context.Context, id string) error {
	for i, req := range r.requests {
		if req.ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return domain.ErrRequestNotFound
}

func (r *stubRequestRepo) List(_ context.Context, filter ports.RequestFilter) ([]*domain.Request, error) {
	r.last = filter
	out := []*domain.Request{}
	for _, req := range r.requests {
		if !filter.DateFrom.IsZero() && req.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && !req.Date.Before(filter.DateTo) {
			continue
		}
		if filter.ClassStandard != "" && req.ClassStandard != filter.ClassStandard {
			continue
		}
		copy := *req
		out = append(out, &copy)
	}
	return out, nil
}
