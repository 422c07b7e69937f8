package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/api/handler"
	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

type stubRequestService struct {
	createFn  func(ctx context.Context, in ports.CreateRequestInput, createdBy *string) (*domain.Request, error)
	filterFn  func(ctx context.Context, in ports.FilterRequestsInput) ([]*domain.Request, error)
	deleteErr error
	all       []*domain.Request
}

func (s *stubRequestService) Get(_ context.Context, id string) (*domain.Request, error) {
	for _, r := range s.all {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (s *stubRequestService) Create(ctx context.Context, in ports.CreateRequestInput, createdBy *string) (*domain.Request, error) {
	return s.createFn(ctx, in, createdBy)
}

func (s *stubRequestService) List(context.Context) ([]*domain.Request, error) {
	return s.all, nil
}

func (s *stubRequestService) Delete(context.Context, string) error {
	return s.deleteErr
}

func (s *stubRequestService) Filter(ctx context.Context, in ports.FilterRequestsInput) ([]*domain.Request, error) {
	return s.filterFn(ctx, in)
}

const validRequestBody = `{"fullName":"Ravi Kumar","email":"ravi@example.com","mobileNumber":"9876543210",` +
	`"schoolName":"Springfield High","classStandard":"12th","date":"2024-05-17"}`

func TestRequestHandler_Create(t *testing.T) {
	var gotCreatedBy *string
	stub := &stubRequestService{
		createFn: func(ctx context.Context, in ports.CreateRequestInput, createdBy *string) (*domain.Request, error) {
			gotCreatedBy = createdBy
			r := &domain.Request{ID: "r1", FullName: in.FullName, ClassStandard: domain.ClassStandard(in.ClassStandard)}
			if createdBy != nil {
				r.CreatedBy = *createdBy
			}
			return r, nil
		},
	}

	t.Run("anonymous", func(t *testing.T) {
		e := newEcho()
		h := handler.NewRequestHandler(stub)

		rec := serve(e, h.Create, http.MethodPost, "/api/requests/createRequests", validRequestBody, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCreatedBy != nil {
			t.Fatalf("anonymous submission must not carry createdBy")
		}
		if _, ok := decode(t, rec)["createdBy"]; ok {
			t.Fatalf("createdBy must be omitted for anonymous submissions")
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		e := newEcho()
		h := handler.NewRequestHandler(stub)

		rec := serve(e, h.Create, http.MethodPost, "/api/requests/createRequests", validRequestBody, asUser(&domain.User{ID: "u7"}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if gotCreatedBy == nil || *gotCreatedBy != "u7" {
			t.Fatalf("expected createdBy u7, got %v", gotCreatedBy)
		}
		if decode(t, rec)["createdBy"] != "u7" {
			t.Fatalf("expected createdBy in response")
		}
	})

	t.Run("invalid class standard", func(t *testing.T) {
		e := newEcho()
		h := handler.NewRequestHandler(&stubRequestService{
			createFn: func(context.Context, ports.CreateRequestInput, *string) (*domain.Request, error) {
				t.Fatalf("should not be called")
				return nil, nil
			},
		})

		body := `{"fullName":"R","email":"r@example.com","mobileNumber":"1","schoolName":"S","classStandard":"11th","date":"2024-05-17"}`
		rec := serve(e, h.Create, http.MethodPost, "/api/requests/createRequests", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		fields, _ := decode(t, rec)["fields"].(map[string]any)
		if _, ok := fields["classStandard"]; !ok {
			t.Fatalf("expected classStandard field error, got %v", fields)
		}
	})
}

func TestRequestHandler_List(t *testing.T) {
	e := newEcho()
	h := handler.NewRequestHandler(&stubRequestService{all: []*domain.Request{
		{ID: "r2", Date: time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)},
		{ID: "r1", Date: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)},
	}})

	rec := serve(e, h.List, http.MethodGet, "/api/requests/requests", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String()[0] != '[' {
		t.Fatalf("expected a JSON array, got %s", rec.Body.String())
	}
}

func TestRequestHandler_Filter(t *testing.T) {
	e := newEcho()
	var got ports.FilterRequestsInput
	h := handler.NewRequestHandler(&stubRequestService{
		filterFn: func(ctx context.Context, in ports.FilterRequestsInput) ([]*domain.Request, error) {
			got = in
			if in.Year == "twenty" {
				return nil, domain.NewValidationError("year", "year must be a four digit number")
			}
			return []*domain.Request{}, nil
		},
	})

	rec := serve(e, h.Filter, http.MethodGet, "/api/requests/filter/search?date=2024-05-17&year=2023&classStandard=10th", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Date != "2024-05-17" || got.Year != "2023" || got.ClassStandard != "10th" {
		t.Fatalf("unexpected filter input %+v", got)
	}

	rec = serve(e, h.Filter, http.MethodGet, "/api/requests/filter/search?year=twenty", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRequestHandler_Delete(t *testing.T) {
	withID := func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("r1")
	}

	e := newEcho()
	h := handler.NewRequestHandler(&stubRequestService{})
	if rec := serve(e, h.Delete, http.MethodDelete, "/api/requests/deleteRequests/r1", "", withID); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = handler.NewRequestHandler(&stubRequestService{deleteErr: domain.ErrRequestNotFound})
	if rec := serve(e, h.Delete, http.MethodDelete, "/api/requests/deleteRequests/r1", "", withID); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequestHandler_Get(t *testing.T) {
	withID := func(id string) func(c echo.Context) {
		return func(c echo.Context) {
			c.SetParamNames("id")
			c.SetParamValues(id)
		}
	}

	e := newEcho()
	h := handler.NewRequestHandler(&stubRequestService{all: []*domain.Request{{ID: "r1", FullName: "Ravi Kumar"}}})

	rec := serve(e, h.Get, http.MethodGet, "/api/requests/request/r1", "", withID("r1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decode(t, rec)["fullName"] != "Ravi Kumar" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if rec := serve(e, h.Get, http.MethodGet, "/api/requests/request/r9", "", withID("r9")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
