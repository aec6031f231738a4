package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
}

// ValidationErrorResponse is returned with 422.
type ValidationErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	UserID    uuid.UUID   `json:"userId"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type validationResponse struct {
	Valid     bool         `json:"valid"`
	Username  *string      `json:"username,omitempty"`
	Role      *domain.Role `json:"role,omitempty"`
	UserID    *uuid.UUID   `json:"userId,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

type credentialResponse struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     domain.Role `json:"role"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		UserID:    r.UserID,
		Username:  r.Username,
		Role:      r.Role,
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}
}

func toValidationResponse(r ports.ValidationResult) validationResponse {
	return validationResponse{
		Valid:     r.Valid,
		Username:  r.Username,
		Role:      r.Role,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
	}
}
