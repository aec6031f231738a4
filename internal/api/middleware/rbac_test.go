package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/trust"
)

func newTrustContext(role, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req.Header.Set(trust.HeaderRole, role)
	}
	if userID != "" {
		req.Header.Set(trust.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAdmin_Allows(t *testing.T) {
	c, rec := newTrustContext("ROLE_ADMIN", "")

	called := false
	handler := Trust()(RequireAdmin()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}))

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	c, _ := newTrustContext("ROLE_USER", uuid.NewString())

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdmin_MissingRole(t *testing.T) {
	c, _ := newTrustContext("", uuid.NewString())

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_UsesStoredAssertion(t *testing.T) {
	owner := uuid.New()
	c, _ := newTrustContext("ROLE_USER", owner.String())

	handler := Trust()(func(c echo.Context) error {
		// headers changed after Trust ran must not matter
		c.Request().Header.Set(trust.HeaderRole, "ROLE_ADMIN")
		return Authorize(c, CheckSelfOrAdmin, trust.SelfOrAdmin(nil))
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner-less resource, got %v", err)
	}
}
