package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energy-platform/mesh/internal/api/handler"
	"github.com/energy-platform/mesh/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: missing X-Role header", domain.ErrUnauthenticated), http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: admin role required", domain.ErrForbidden), http.StatusForbidden},
		{domain.ErrDeviceNotFound, http.StatusNotFound},
		{domain.ErrProfileNotFound, http.StatusNotFound},
		{domain.ErrCredentialNotFound, http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrProfileExists, http.StatusConflict},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrIDMismatch, http.StatusBadRequest},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{fmt.Errorf("fetch devices: %w", domain.ErrPeerUnavailable), http.StatusBadGateway},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
		{echo.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec, body := renderError(t, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestErrorHandler_InvalidCredentialsHidesCause(t *testing.T) {
	_, body := renderError(t, fmt.Errorf("login alice: %w", domain.ErrInvalidCredentials))
	assert.Equal(t, "invalid username or password", body["error"])
	assert.NotContains(t, body["error"], "alice")
}

func TestErrorHandler_UnexpectedErrorCarriesMessage(t *testing.T) {
	rec, body := renderError(t, errors.New("mongo: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "mongo: connection reset", body["error"])
}

func TestErrorHandler_Validation(t *testing.T) {
	rec, body := renderError(t, &handler.ValidationError{Fields: map[string]string{"email": "email must be a valid email"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "errors object missing: %v", body)
	assert.Equal(t, "email must be a valid email", errs["email"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
