package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// ProfileSeed is what the auth service knows about a freshly created identity.
type ProfileSeed struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// ProfileBridge creates the companion user profile in the user service.
// Implementations are best-effort: a returned error is for logging only.
type ProfileBridge interface {
	OnIdentityCreated(ctx context.Context, seed ProfileSeed) error
}

// DeviceFetcher reads devices owned by a user from the device service.
type DeviceFetcher interface {
	FetchOwnedDevices(ctx context.Context, ownerID uuid.UUID, authorization string) ([]domain.Device, error)
}
