package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/api/metrics"
	"github.com/energy-platform/mesh/internal/api/middleware"
	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
	"github.com/energy-platform/mesh/internal/core/trust"
)

type AuthHandler struct {
	authService ports.AuthService
	validator   ports.TokenValidator
}

func NewAuthHandler(authService ports.AuthService, validator ports.TokenValidator) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator}
}

// Register creates a credential and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.RegisterInput{Username: req.Username, Password: req.Password, Email: req.Email}
	if strings.TrimSpace(req.Role) != "" {
		role, ok := domain.ParseRole(req.Role)
		if !ok {
			return invalidField("role", "role must be one of: ADMIN, CLIENT")
		}
		in.Role = role
	}

	res, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrUsernameTaken) {
			result = "conflict"
		}
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Validate checks a bearer token for the gateway and mirrors the identity
// into X-User, X-User-Id and X-Role.
//
// @Summary      Validate a token
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer token (prefix optional)"
// @Success      200            {object}  validationResponse
// @Failure      400            {object}  ErrorResponse
// @Failure      401            {object}  validationResponse
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	tok := raw
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		tok = strings.TrimSpace(raw[7:])
	} else if strings.EqualFold(raw, "bearer") {
		tok = ""
	}
	if tok == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "authorization header missing")
	}

	res := h.validator.ExtractIdentity(tok)
	metrics.TokenValidationsTotal.WithLabelValues(boolLabel(res.Valid)).Inc()
	if !res.Valid {
		return c.JSON(http.StatusUnauthorized, toValidationResponse(res))
	}

	hdr := c.Response().Header()
	hdr.Set(trust.HeaderUser, *res.Username)
	hdr.Set(trust.HeaderUserID, res.UserID.String())
	if res.Role != nil {
		hdr.Set(trust.HeaderRole, res.Role.Header())
	}
	return c.JSON(http.StatusOK, toValidationResponse(res))
}

// Me returns the credential of the bearer.
//
// @Summary      Current credential
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  credentialResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	cred, err := h.authService.Me(c.Request().Context(), id.Username)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}

	return c.JSON(http.StatusOK, credentialResponse{
		ID:       cred.ID,
		Username: cred.Username,
		Email:    cred.Email,
		Role:     cred.Role,
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
