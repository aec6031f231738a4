package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/service"
	"github.com/energy-platform/mesh/internal/infrastructure/token"
)

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: "middleware-test-secret-" + uuid.NewString(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	codec := newCodec(t)
	want := domain.Identity{Username: "alice", UserID: uuid.New(), Role: domain.RoleAdmin}
	tok, err := codec.Issue(want)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(service.NewTokenValidator(codec))
	handler := mw(func(c echo.Context) error {
		called = true
		got, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not set")
		}
		if got != want {
			t.Fatalf("unexpected identity: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	codec := newCodec(t)
	foreign, err := newCodec(t).Issue(domain.Identity{Username: "mallory", UserID: uuid.New(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"garbage token":   "Bearer not-a-token",
		"foreign key":     "Bearer " + foreign.Value,
		"no token at all": "Bearer",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Auth(service.NewTokenValidator(codec))
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
