package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// CredentialRepository defines persistence for login credentials.
type CredentialRepository interface {
	// Create stores a new credential. Returns domain.ErrUsernameTaken when the
	// username (exact, case-sensitive) already exists.
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	FindByUsername(ctx context.Context, username string) (*domain.Credential, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
