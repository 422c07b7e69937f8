package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account on the portal.
//
// ResetTokenHash and ResetTokenExpiry are either both set (a reset is pending)
// or both empty.
type User struct {
	ID               string     `json:"_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile,omitempty"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	ProfileImage     string     `json:"profileImage,omitempty"`
	ResetTokenHash   string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Public returns a copy of the user with credential material stripped.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.ResetTokenHash = ""
	clone.ResetTokenExpiry = nil
	return &clone
}
