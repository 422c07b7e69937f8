package handler

import "github.com/eduportal/academic-api/internal/core/domain"

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// messageResponse is the body of operations that only acknowledge.
type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type userListResponse struct {
	Success     bool           `json:"success"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalUsers  int64          `json:"totalUsers"`
	Users       []*domain.User `json:"users"`
}

type registerRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Mobile          string `json:"mobile"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// updateProfileRequest binds from JSON or from multipart form fields.
type updateProfileRequest struct {
	Name   string `json:"name" form:"name"`
	Email  string `json:"email" form:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile" form:"mobile"`
	Role   string `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
}

type createRequestRequest struct {
	FullName      string `json:"fullName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	MobileNumber  string `json:"mobileNumber" validate:"required"`
	SchoolName    string `json:"schoolName" validate:"required"`
	Message       string `json:"message"`
	ClassStandard string `json:"classStandard" validate:"required,oneof=10th 12th"`
	Date          string `json:"date" validate:"required"`
}
