package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// RegisterInput carries a registration request. A zero Role means CLIENT.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     domain.Role
}

// AuthResult is returned by both Register and Login.
type AuthResult struct {
	UserID    uuid.UUID
	Username  string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Me(ctx context.Context, username string) (*domain.Credential, error)
}

// ValidationResult is the outcome of a token check. When Valid is false
// every other field is nil.
type ValidationResult struct {
	Valid     bool
	Username  *string
	UserID    *uuid.UUID
	Role      *domain.Role
	ExpiresAt *time.Time
}

// TokenValidator decides token validity and extracts the asserted identity.
type TokenValidator interface {
	IsValid(token string) bool
	ExtractIdentity(token string) ValidationResult
	ExtractExpiration(token string) (time.Time, error)
}
