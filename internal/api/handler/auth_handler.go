package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduportal/academic-api/internal/core/domain"
	"github.com/eduportal/academic-api/internal/core/ports"
)

const forgotPasswordAck = "If an account exists for that email, a password reset link has been sent"

type AuthHandler struct {
	authService ports.AuthService
	// revealUnknownEmail answers 404 for unregistered addresses on
	// forgot-password instead of the uniform acknowledgement.
	revealUnknownEmail bool
}

func NewAuthHandler(authService ports.AuthService, revealUnknownEmail bool) *AuthHandler {
	return &AuthHandler{authService: authService, revealUnknownEmail: revealUnknownEmail}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Mobile:   req.Mobile,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    res.User,
		Token:   res.Token,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    res.User,
		Token:   res.Token,
	})
}

// ForgotPassword starts the reset flow and emails a one-hour reset link.
//
// @Summary      Request a password reset link
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/users/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) || h.revealUnknownEmail {
			return err
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: forgotPasswordAck})
}

// ResetPassword redeems a reset token and sets a new password.
//
// @Summary      Reset password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token from the email link"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /api/users/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset successfully"})
}

// bindAndValidate decodes the request body into req and runs the registered
// validator. Malformed bodies are reported as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
