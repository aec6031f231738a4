package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	List(ctx context.Context) ([]*domain.UserProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, p *domain.UserProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
