package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/api/middleware"
	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
	"github.com/energy-platform/mesh/internal/core/trust"
)

// ProfileHandler handles HTTP requests for user profiles.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// List returns every profile.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        X-Role  header    string  true  "ROLE_ADMIN"
// @Success      200     {array}   domain.UserProfile
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.service.ListProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileList(profiles))
}

// Get returns a profile to its owner or an admin.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id         path      string  true  "User id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  domain.UserProfile
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOrAdmin, trust.SelfOrAdmin(&id)); err != nil {
		return err
	}

	p, err := h.service.GetProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create stores a profile. The auth service calls this on registration.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string          true  "ROLE_ADMIN"
// @Param        body    body      profileRequest  true  "Profile"
// @Success      201     {object}  domain.UserProfile
// @Failure      403     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Failure      422     {object}  ValidationErrorResponse
// @Router       /users [post]
func (h *ProfileHandler) Create(c echo.Context) error {
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.CreateProfile(c.Request().Context(), req.toProfile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update replaces the profile under id. The body id must match the path.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path      string          true  "User id"
// @Param        X-Role  header    string          true  "ROLE_ADMIN"
// @Param        body    body      profileRequest  true  "Profile"
// @Success      200     {object}  domain.UserProfile
// @Failure      400     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, id)
}

// Delete removes a profile.
//
// @Summary      Delete a user
// @Tags         users
// @Param        id      path  string  true  "User id"
// @Param        X-Role  header  string  true  "ROLE_ADMIN"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProfile(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Devices returns a profile with the devices it owns, read from the device
// service with the caller's Authorization forwarded.
//
// @Summary      Get a user's devices
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "User id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  ports.UserDevices
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /users/{id}/devices [get]
func (h *ProfileHandler) Devices(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOrAdmin, trust.SelfOrAdmin(&id)); err != nil {
		return err
	}
	return h.devices(c, id)
}

// Me returns the caller's own profile.
//
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  domain.UserProfile
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /users/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	p, err := h.service.GetProfile(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateMe replaces the caller's own profile. The body id must be the
// caller's.
//
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-User-Id  header    string          true  "Caller id"
// @Param        body       body      profileRequest  true  "Profile"
// @Success      200        {object}  domain.UserProfile
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse
// @Router       /users/me [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	return h.update(c, caller)
}

// MyDevices returns the caller's profile and devices.
//
// @Summary      Get my devices
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  ports.UserDevices
// @Failure      401        {object}  ErrorResponse
// @Failure      502        {object}  ErrorResponse
// @Router       /users/me/devices [get]
func (h *ProfileHandler) MyDevices(c echo.Context) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	return h.devices(c, caller)
}

func (h *ProfileHandler) caller(c echo.Context) (uuid.UUID, error) {
	if err := middleware.Authorize(c, middleware.CheckAuthenticated, trust.Authenticated()); err != nil {
		return uuid.Nil, err
	}
	return middleware.AssertionFrom(c).Caller()
}

func (h *ProfileHandler) update(c echo.Context, id uuid.UUID) error {
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateProfile(c.Request().Context(), id, req.toProfile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// devices requires an Authorization header to forward to the device service.
func (h *ProfileHandler) devices(c echo.Context, id uuid.UUID) error {
	auth := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if auth == "" {
		return domain.ErrUnauthenticated
	}

	res, err := h.service.UserDevices(c.Request().Context(), id, auth)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
