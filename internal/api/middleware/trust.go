package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/core/trust"
)

const assertionKey = "trust_assertion"

// Trust reads X-Role and X-User-Id into the echo context. It does not verify
// anything; checks run later against what was presented.
func Trust() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(assertionKey, trust.FromHeaders(c.Request().Header))
			return next(c)
		}
	}
}

// AssertionFrom returns the assertion stored by Trust, or reads the request
// headers when the middleware did not run.
func AssertionFrom(c echo.Context) trust.Assertion {
	if a, ok := c.Get(assertionKey).(trust.Assertion); ok {
		return a
	}
	return trust.FromHeaders(c.Request().Header)
}
