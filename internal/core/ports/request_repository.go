package ports

import (
	"context"
	"time"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// RequestFilter carries the query for listing inquiries. Zero values disable
// the corresponding condition.
type RequestFilter struct {
	DateFrom      time.Time // date >= DateFrom
	DateTo        time.Time // date < DateTo
	ClassStandard domain.ClassStandard
}

// RequestRepository defines persistence operations for inquiries.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) error
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	Delete(ctx context.Context, id string) error
	// List returns matching requests, newest date first.
	List(ctx context.Context, filter RequestFilter) ([]*domain.Request, error)
}
