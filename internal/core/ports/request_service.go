package ports

import (
	"context"

	"github.com/eduportal/academic-api/internal/core/domain"
)

// CreateRequestInput carries an inquiry form submission.
type CreateRequestInput struct {
	FullName      string
	Email         string
	MobileNumber  string
	SchoolName    string
	Message       string
	ClassStandard string
	// Date is YYYY-MM-DD or RFC 3339.
	Date string
}

// FilterRequestsInput mirrors the query string of the filter endpoint.
// Date (YYYY-MM-DD) takes precedence over Year (YYYY).
type FilterRequestsInput struct {
	Date          string
	Year          string
	ClassStandard string
}

type RequestService interface {
	// Create stores a submission. createdBy is nil for anonymous submissions.
	Create(ctx context.Context, in CreateRequestInput, createdBy *string) (*domain.Request, error)
	List(ctx context.Context) ([]*domain.Request, error)
	Get(ctx context.Context, id string) (*domain.Request, error)
	Delete(ctx context.Context, id string) error
	Filter(ctx context.Context, in FilterRequestsInput) ([]*domain.Request, error)
}
