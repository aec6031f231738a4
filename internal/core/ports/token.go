package ports

import (
	"time"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// TokenCodec issues and verifies signed identity tokens.
type TokenCodec interface {
	Issue(id domain.Identity) (domain.Token, error)
	// Parse verifies signature and expiry before returning any claim.
	Parse(token string) (*domain.Claims, error)
	// Expiration verifies the signature only and returns the embedded expiry,
	// so it succeeds for expired tokens.
	Expiration(token string) (time.Time, error)
}
