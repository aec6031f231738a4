package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/energy-platform/mesh/internal/api/middleware"
	"github.com/energy-platform/mesh/internal/core/ports"
	"github.com/energy-platform/mesh/internal/core/trust"
)

// DeviceHandler handles HTTP requests for the device registry. Admin-only
// routes are guarded by middleware.RequireAdmin at registration; the
// resource-dependent checks run here.
type DeviceHandler struct {
	service ports.DeviceService
}

func NewDeviceHandler(service ports.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// List returns every device.
//
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Param        X-Role  header    string  true  "ROLE_ADMIN"
// @Success      200     {array}   domain.Device
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /devices [get]
func (h *DeviceHandler) List(c echo.Context) error {
	devices, err := h.service.ListDevices(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deviceList(devices))
}

// Available returns devices without an owner.
//
// @Summary      List unassigned devices
// @Tags         devices
// @Produce      json
// @Success      200  {array}  domain.Device
// @Router       /devices/available [get]
func (h *DeviceHandler) Available(c echo.Context) error {
	devices, err := h.service.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deviceList(devices))
}

// Mine returns the caller's devices.
//
// @Summary      List my devices
// @Tags         devices
// @Produce      json
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {array}   domain.Device
// @Failure      401        {object}  ErrorResponse
// @Router       /devices/me [get]
func (h *DeviceHandler) Mine(c echo.Context) error {
	if err := middleware.Authorize(c, middleware.CheckAuthenticated, trust.Authenticated()); err != nil {
		return err
	}
	caller, _ := middleware.AssertionFrom(c).Caller()

	devices, err := h.service.ListByOwner(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deviceList(devices))
}

// ByOwner returns the devices of ownerId. Used by the user service.
//
// @Summary      List devices by owner
// @Tags         devices
// @Produce      json
// @Param        ownerId    path      string  true  "Owner id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {array}   domain.Device
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Router       /devices/owner/{ownerId} [get]
func (h *DeviceHandler) ByOwner(c echo.Context) error {
	owner, err := pathUUID(c, "ownerId")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOrAdmin, trust.SelfOrAdmin(&owner)); err != nil {
		return err
	}

	devices, err := h.service.ListByOwner(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deviceList(devices))
}

// Get returns one device to its owner or an admin.
//
// @Summary      Get a device
// @Tags         devices
// @Produce      json
// @Param        id         path      string  true  "Device id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  domain.Device
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /devices/{id} [get]
func (h *DeviceHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckIdentified, trust.Identified()); err != nil {
		return err
	}

	d, err := h.service.GetDevice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOrAdmin, trust.SelfOrAdmin(d.OwnerID)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Create registers a new, unassigned device.
//
// @Summary      Create a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string         true  "ROLE_ADMIN"
// @Param        body    body      deviceRequest  true  "Device"
// @Success      201     {object}  domain.Device
// @Failure      403     {object}  ErrorResponse
// @Failure      422     {object}  ValidationErrorResponse
// @Router       /devices [post]
func (h *DeviceHandler) Create(c echo.Context) error {
	var req deviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.CreateDevice(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// Update replaces a device's fields.
//
// @Summary      Update a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id      path      string         true  "Device id"
// @Param        X-Role  header    string         true  "ROLE_ADMIN"
// @Param        body    body      deviceRequest  true  "Device"
// @Success      200     {object}  domain.Device
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      422     {object}  ValidationErrorResponse
// @Router       /devices/{id} [put]
func (h *DeviceHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req deviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.UpdateDevice(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Delete removes a device.
//
// @Summary      Delete a device
// @Tags         devices
// @Param        id      path  string  true  "Device id"
// @Param        X-Role  header  string  true  "ROLE_ADMIN"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /devices/{id} [delete]
func (h *DeviceHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteDevice(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign gives a device to userId. Callers may only assign to themselves
// unless they are admin.
//
// @Summary      Assign a device
// @Tags         devices
// @Produce      json
// @Param        id         path      string  true  "Device id"
// @Param        userId     path      string  true  "New owner id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  domain.Device
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /devices/{id}/assign/{userId} [post]
func (h *DeviceHandler) Assign(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	target, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOnly, trust.SelfOnly(target)); err != nil {
		return err
	}

	d, err := h.service.Assign(c.Request().Context(), id, target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Unassign releases a device. Allowed for admins and the current owner.
//
// @Summary      Unassign a device
// @Tags         devices
// @Produce      json
// @Param        id         path      string  true  "Device id"
// @Param        X-Role     header    string  true  "Caller role"
// @Param        X-User-Id  header    string  true  "Caller id"
// @Success      200        {object}  domain.Device
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /devices/{id}/unassign [post]
func (h *DeviceHandler) Unassign(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckIdentified, trust.Identified()); err != nil {
		return err
	}

	d, err := h.service.GetDevice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if err := middleware.Authorize(c, middleware.CheckSelfOrAdmin, trust.SelfOrAdmin(d.OwnerID)); err != nil {
		return err
	}

	d, err = h.service.Unassign(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
