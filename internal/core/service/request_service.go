package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/api/metrics"
	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

const dayLayout = "2006-01-02"

type requestService struct {
	repo ports.RequestRepository
	log  zerolog.Logger
	clock
}

// NewRequestService returns a RequestService implementation.
func NewRequestService(repo ports.RequestRepository, log zerolog.Logger, opts ...Option) ports.RequestService {
	return &requestService{repo: repo, log: log, clock: newClock(opts)}
}

func (s *requestService) Create(ctx context.Context, in ports.CreateRequestInput, createdBy *string) (*domain.Request, error) {
	r := &domain.Request{
		FullName:      strings.TrimSpace(in.FullName),
		Email:         domain.NormalizeEmail(in.Email),
		MobileNumber:  strings.TrimSpace(in.MobileNumber),
		SchoolName:    strings.TrimSpace(in.SchoolName),
		Message:       strings.TrimSpace(in.Message),
		ClassStandard: domain.ClassStandard(strings.TrimSpace(in.ClassStandard)),
	}

	verr := &domain.ValidationError{}
	required := map[string]string{
		"fullName":     r.FullName,
		"email":        r.Email,
		"mobileNumber": r.MobileNumber,
		"schoolName":   r.SchoolName,
	}
	for field, v := range required {
		if v == "" {
			verr.Add(field, field+" is required")
		}
	}
	switch {
	case r.ClassStandard == "":
		verr.Add("classStandard", "classStandard is required")
	case !r.ClassStandard.Valid():
		verr.Add("classStandard", "classStandard must be one of: 10th 12th")
	}
	date, err := parseRequestDate(in.Date)
	if err != nil {
		verr.Add("date", err.Error())
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now := s.now().UTC()
	r.Date = date
	r.CreatedAt = now
	r.UpdatedAt = now
	if createdBy != nil {
		r.CreatedBy = *createdBy
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	metrics.RequestsCreatedTotal.WithLabelValues(string(r.ClassStandard)).Inc()
	s.log.Info().Str("request_id", r.ID).Str("class_standard", string(r.ClassStandard)).Msg("request created")
	return r, nil
}

func (s *requestService) List(ctx context.Context) ([]*domain.Request, error) {
	return s.repo.List(ctx, ports.RequestFilter{})
}

func (s *requestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("request_id", id).Msg("request deleted")
	return nil
}

func (s *requestService) Filter(ctx context.Context, in ports.FilterRequestsInput) ([]*domain.Request, error) {
	var filter ports.RequestFilter

	switch {
	case in.Date != "":
		day, err := time.Parse(dayLayout, in.Date)
		if err != nil {
			return nil, domain.NewValidationError("date", "date must be formatted as YYYY-MM-DD")
		}
		filter.DateFrom = day
		filter.DateTo = day.AddDate(0, 0, 1)
	case in.Year != "":
		year, err := strconv.Atoi(in.Year)
		if err != nil || len(in.Year) != 4 {
			return nil, domain.NewValidationError("year", "year must be a four digit number")
		}
		filter.DateFrom = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		filter.DateTo = filter.DateFrom.AddDate(1, 0, 0)
	}

	if in.ClassStandard != "" {
		cs := domain.ClassStandard(in.ClassStandard)
		if !cs.Valid() {
			return nil, domain.NewValidationError("classStandard", "classStandard must be one of: 10th 12th")
		}
		filter.ClassStandard = cs
	}

	return s.repo.List(ctx, filter)
}

// parseRequestDate accepts a calendar day or a full RFC 3339 timestamp.
func parseRequestDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errDateRequired
	}
	if t, err := time.Parse(dayLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errDateFormat
	}
	return t.UTC(), nil
}

var (
	errDateRequired = errors.New("date is required")
	errDateFormat   = errors.New("date must be YYYY-MM-DD or RFC 3339")
)
