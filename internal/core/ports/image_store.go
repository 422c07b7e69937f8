package ports

import "context"

// ImageStore hosts uploaded images and returns their public URL.
type ImageStore interface {
	// PutProfileImage stores data as the profile picture of userID, replacing any
	// previous one.
	PutProfileImage(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}
