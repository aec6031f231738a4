package api

import (
	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/api/handler"
	"github.com/energy-platform/mesh/internal/api/middleware"
	"github.com/energy-platform/mesh/internal/core/ports"
	infrahttp "github.com/energy-platform/mesh/internal/infrastructure/http"
)

// NewAuthRouter builds the auth service: registration, login, token
// validation for the gateway and the bearer's own credential.
func NewAuthRouter(opts infrahttp.Options, auth ports.AuthService, validator ports.TokenValidator) *echo.Echo {
	e := newRouter(opts)

	h := handler.NewAuthHandler(auth, validator)
	g := e.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/validate", h.Validate)
	g.GET("/me", h.Me, middleware.Auth(validator))

	return e
}

// NewDeviceRouter builds the device service. Callers are identified by the
// trust headers the gateway forwards.
func NewDeviceRouter(opts infrahttp.Options, devices ports.DeviceService) *echo.Echo {
	e := newRouter(opts)

	h := handler.NewDeviceHandler(devices)
	admin := middleware.RequireAdmin()

	g := e.Group("/devices", middleware.Trust())
	g.GET("/me", h.Mine)
	g.GET("/available", h.Available)
	g.GET("/owner/:ownerId", h.ByOwner)
	g.GET("", h.List, admin)
	g.POST("", h.Create, admin)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin)
	g.POST("/:id/assign/:userId", h.Assign)
	g.POST("/:id/unassign", h.Unassign)

	return e
}

// NewUserRouter builds the user service.
func NewUserRouter(opts infrahttp.Options, profiles ports.ProfileService) *echo.Echo {
	e := newRouter(opts)

	h := handler.NewProfileHandler(profiles)
	admin := middleware.RequireAdmin()

	g := e.Group("/users", middleware.Trust())
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe)
	g.GET("/me/devices", h.MyDevices)
	g.GET("", h.List, admin)
	g.POST("", h.Create, admin)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin)
	g.GET("/:id/devices", h.Devices)

	return e
}

func newRouter(opts infrahttp.Options) *echo.Echo {
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = NewHTTPErrorHandler(opts.Log)
	}
	if opts.Validator == nil {
		opts.Validator = handler.NewValidator()
	}
	return infrahttp.NewRouter(opts)
}
