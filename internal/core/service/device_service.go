package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

// DeviceService implements the device registry use cases. Callers authorize
// before invoking it.
type DeviceService struct {
	repo ports.DeviceRepository
	log  zerolog.Logger
}

func NewDeviceService(repo ports.DeviceRepository, log zerolog.Logger) *DeviceService {
	return &DeviceService{repo: repo, log: log}
}

func (s *DeviceService) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	return s.repo.List(ctx)
}

func (s *DeviceService) GetDevice(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DeviceService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Device, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// ListAvailable returns devices nobody owns yet.
func (s *DeviceService) ListAvailable(ctx context.Context) ([]*domain.Device, error) {
	return s.repo.FindUnassigned(ctx)
}

// CreateDevice stores a new unassigned device.
func (s *DeviceService) CreateDevice(ctx context.Context, in ports.DeviceInput) (*domain.Device, error) {
	d := &domain.Device{ID: uuid.New()}
	apply(d, in)
	if err := s.repo.Save(ctx, d); err != nil {
		s.log.Error().Err(err).Msg("failed to create device")
		return nil, err
	}
	s.log.Info().Str("device_id", d.ID.String()).Msg("device created")
	return d, nil
}

// UpdateDevice replaces the mutable fields. Ownership is left untouched.
func (s *DeviceService) UpdateDevice(ctx context.Context, id uuid.UUID, in ports.DeviceInput) (*domain.Device, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(d, in)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeviceService) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Assign gives the device to ownerID, replacing any previous owner.
func (s *DeviceService) Assign(ctx context.Context, id, ownerID uuid.UUID) (*domain.Device, error) {
	return s.setOwner(ctx, id, &ownerID)
}

// Unassign clears the device owner.
func (s *DeviceService) Unassign(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return s.setOwner(ctx, id, nil)
}

func (s *DeviceService) setOwner(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*domain.Device, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.OwnerID = owner
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	ev := s.log.Info().Str("device_id", d.ID.String())
	if owner != nil {
		ev = ev.Str("owner_id", owner.String())
	}
	ev.Msg("device ownership changed")
	return d, nil
}

func apply(d *domain.Device, in ports.DeviceInput) {
	d.Name = in.Name
	d.Description = in.Description
	d.MaximumConsumption = in.MaximumConsumption
	d.PowerConsumption = in.PowerConsumption
}
