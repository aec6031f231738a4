package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

const identityKey = "identity"

// Auth requires a valid bearer token and stores the identity it asserts in
// the echo context.
func Auth(validator ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			res := validator.ExtractIdentity(strings.TrimSpace(parts[1]))
			if !res.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id := domain.Identity{Username: *res.Username, UserID: *res.UserID}
			if res.Role != nil {
				id.Role = *res.Role
			}
			c.Set(identityKey, id)

			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
