package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// UserDevices is a profile together with the devices it owns.
type UserDevices struct {
	User    *domain.UserProfile `json:"user"`
	Devices []domain.Device     `json:"devices"`
}

// ProfileService defines use-case operations for user profiles.
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]*domain.UserProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	CreateProfile(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p domain.UserProfile) (*domain.UserProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	// UserDevices loads the profile and the devices it owns. authorization is
	// the caller's original Authorization header, forwarded to the peer.
	UserDevices(ctx context.Context, id uuid.UUID, authorization string) (*UserDevices, error)
}
