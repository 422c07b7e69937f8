package ports

import "context"

// ResetEmail is the out-of-band delivery of a password reset link.
type ResetEmail struct {
	To       string
	Name     string
	ResetURL string
}

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg ResetEmail) error
}
