package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

// ProfileService implements the user profile use cases.
type ProfileService struct {
	repo    ports.ProfileRepository
	devices ports.DeviceFetcher
	log     zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, devices ports.DeviceFetcher, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, devices: devices, log: log}
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*domain.UserProfile, error) {
	return s.repo.List(ctx)
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateProfile stores p. A zero id is replaced with a fresh one; an id or
// email already in use is a conflict.
func (s *ProfileService) CreateProfile(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	} else {
		exists, err := s.repo.ExistsByID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		if exists {
			return nil, domain.ErrProfileExists
		}
	}

	taken, err := s.repo.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	if err := s.repo.Save(ctx, &p); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", p.ID.String()).Msg("profile created")
	return &p, nil
}

// UpdateProfile replaces the profile stored under id. p.ID must equal id. Changing the email to one held by another profile is rejected.
func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, p domain.UserProfile) (*domain.UserProfile, error) {
	if p.ID != id {
		return nil, domain.ErrIDMismatch
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(current.Email, p.Email) {
		taken, err := s.repo.ExistsByEmail(ctx, p.Email)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
	}

	p.ID = id
	if err := s.repo.Save(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UserDevices loads the profile, then asks the device service for what it owns.
func (s *ProfileService) UserDevices(ctx context.Context, id uuid.UUID, authorization string) (*ports.UserDevices, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	devices, err := s.devices.FetchOwnedDevices(ctx, id, authorization)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", id.String()).Msg("fetch owned devices failed")
		return nil, err
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	return &ports.UserDevices{User: p, Devices: devices}, nil
}
