// Package http builds the echo instance every service starts from: global
// middleware, health probes, metrics and API docs.
package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/energy-platform/mesh/internal/infrastructure/http/handlers"
)

// Options configures NewRouter. Mongo is required; Redis is optional.
// Metrics are served only when Registerer and Gatherer are both set.
type Options struct {
	Service      string
	Log          zerolog.Logger
	Mongo        *mongo.Database
	Redis        *redis.Client
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer
	ErrorHandler echo.HTTPErrorHandler
	Validator    echo.Validator
	Swagger      bool
}

// NewRouter builds and returns the Echo instance with the shared routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.ErrorHandler != nil {
		e.HTTPErrorHandler = opts.ErrorHandler
	}
	if opts.Validator != nil {
		e.Validator = opts.Validator
	}

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(opts.Log))
	if opts.Registerer != nil && opts.Gatherer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  subsystem(opts.Service),
			Registerer: opts.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler(opts.Service)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Mongo, opts.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	if opts.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request completed")
			return nil
		},
	})
}

// subsystem turns "auth-service" into a prometheus-safe "auth_service".
func subsystem(service string) string {
	out := []byte(service)
	for i, b := range out {
		if !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9') {
			out[i] = '_'
		}
	}
	return string(out)
}
