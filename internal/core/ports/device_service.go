package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// DeviceInput carries the mutable fields of a device.
type DeviceInput struct {
	Name               string
	Description        string
	MaximumConsumption float64
	PowerConsumption   float64
}

// DeviceService defines use-case operations for the device registry.
// Authorization is enforced by the caller through trust checks.
type DeviceService interface {
	ListDevices(ctx context.Context) ([]*domain.Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Device, error)
	ListAvailable(ctx context.Context) ([]*domain.Device, error)
	CreateDevice(ctx context.Context, in DeviceInput) (*domain.Device, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, in DeviceInput) (*domain.Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	Assign(ctx context.Context, id, ownerID uuid.UUID) (*domain.Device, error)
	Unassign(ctx context.Context, id uuid.UUID) (*domain.Device, error)
}
