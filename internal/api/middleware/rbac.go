package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/api/metrics"
	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/trust"
)

// Check names used as metric labels.
const (
	CheckAdminOnly     = "admin_only"
	CheckSelfOrAdmin   = "self_or_admin"
	CheckSelfOnly      = "self_only"
	CheckAuthenticated = "authenticated"
	CheckIdentified    = "identified"
)

// Authorize runs check against the caller's trust assertion and records the
// decision. The returned error wraps ErrUnauthenticated or ErrForbidden.
func Authorize(c echo.Context, name string, check trust.Check) error {
	err := check(AssertionFrom(c))
	metrics.AuthzDecisionsTotal.WithLabelValues(name, decision(err)).Inc()
	return err
}

// RequireAdmin enforces the admin-only check on a route or group.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Authorize(c, CheckAdminOnly, trust.AdminOnly()); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func decision(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "unauthenticated"
	}
}
