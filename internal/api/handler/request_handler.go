package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/core/ports"
)

// RequestHandler handles the inquiry form endpoints.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /api/requests/createRequests. Anonymous submissions are
// allowed; a signed-in caller is recorded as the submitter.
//
// @Summary      Submit an inquiry
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body      createRequestRequest  true  "Inquiry"
// @Success      201   {object}  domain.Request
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/requests/createRequests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var createdBy *string
	if user := optionalUser(c); user != nil {
		createdBy = &user.ID
	}

	r, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		FullName:      req.FullName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		SchoolName:    req.SchoolName,
		Message:       req.Message,
		ClassStandard: req.ClassStandard,
		Date:          req.Date,
	}, createdBy)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, r)
}

// List handles GET /api/requests/requests.
//
// @Summary      List inquiries
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Request
// @Failure      403  {object}  ErrorResponse
// @Router       /api/requests/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	requests, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Get handles GET /api/requests/request/:id.
//
// @Summary      Get an inquiry by id
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  domain.Request
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/requests/request/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /api/requests/deleteRequests/:id.
//
// @Summary      Delete an inquiry
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/requests/deleteRequests/{id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Request deleted successfully"})
}

// Filter handles GET /api/requests/filter/search.
//
// @Summary      Filter inquiries
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        date           query     string  false  "Day (YYYY-MM-DD), takes precedence over year"
// @Param        year           query     string  false  "Year (YYYY)"
// @Param        classStandard  query     string  false  "10th or 12th"
// @Success      200            {array}   domain.Request
// @Failure      400            {object}  ErrorResponse
// @Router       /api/requests/filter/search [get]
func (h *RequestHandler) Filter(c echo.Context) error {
	requests, err := h.service.Filter(c.Request().Context(), ports.FilterRequestsInput{
		Date:          c.QueryParam("date"),
		Year:          c.QueryParam("year"),
		ClassStandard: c.QueryParam("classStandard"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}
