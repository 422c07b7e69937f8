package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
	"github.com/eduportal/academic-api/internal/core/service"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile returns the authenticated user.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// UpdateProfile edits a profile. Accepts JSON, or multipart form data with an
// optional "image" file.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string                true   "User id"
// @Param        body    body      updateProfileRequest  false  "Profile fields"
// @Param        image   formData  file                  false  "Profile image (max 5 MiB)"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /api/users/profile/{userId} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := readImage(c)
	if err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor, c.Param("userId"), ports.UpdateProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		Role:   req.Role,
		Image:  image,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{Success: true, Message: "Profile updated successfully", User: user})
}

// readImage returns the uploaded "image" part of a multipart request, or nil
// when the request is not multipart or carries no image.
func readImage(c echo.Context) ([]byte, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	if fh.Size > service.MaxProfileImageBytes {
		return nil, domain.NewValidationError("image", "image must be at most 5 MiB")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxProfileImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}
	return data, nil
}

// List returns one page of accounts.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  userListResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Router       /api/users/allUsers [get]
func (h *UserHandler) List(c echo.Context) error {
	var page, limit int
	if err := echo.QueryParamsBinder(c).Int("page", &page).Int("limit", &limit).BindError(); err != nil {
		return domain.NewValidationError("page", "page and limit must be integers")
	}

	res, err := h.userService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userListResponse{
		Success:     true,
		CurrentPage: res.Page,
		TotalPages:  res.TotalPages,
		TotalUsers:  res.Total,
		Users:       res.Users,
	})
}

// Get returns a single account.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// Delete removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/deleteUser/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
