package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// DeviceRepository defines persistence operations for devices.
type DeviceRepository interface {
	List(ctx context.Context) ([]*domain.Device, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	// FindByOwner returns devices assigned to ownerID.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Device, error)
	// FindUnassigned returns devices with no owner.
	FindUnassigned(ctx context.Context) ([]*domain.Device, error)
	Save(ctx context.Context, d *domain.Device) error
	Delete(ctx context.Context, id uuid.UUID) error
}
