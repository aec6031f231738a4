package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

// TokenValidator answers validity questions about bearer tokens. It keeps no
// state: every call re-verifies signature and expiry.
type TokenValidator struct {
	codec ports.TokenCodec
}

func NewTokenValidator(codec ports.TokenCodec) *TokenValidator {
	return &TokenValidator{codec: codec}
}

// IsValid reports whether token is correctly signed and unexpired.
func (v *TokenValidator) IsValid(token string) bool {
	_, err := v.claims(token)
	return err == nil
}

// ExtractIdentity returns the identity a valid token asserts. On any failure
// the result is Valid=false with every field nil. An unrecognised role claim
// leaves Role nil without invalidating the token.
func (v *TokenValidator) ExtractIdentity(token string) ports.ValidationResult {
	claims, err := v.claims(token)
	if err != nil {
		return ports.ValidationResult{}
	}
	uid, _ := uuid.Parse(claims.UserID)

	username := claims.Subject
	expires := claims.ExpiresAt
	res := ports.ValidationResult{
		Valid:     true,
		Username:  &username,
		UserID:    &uid,
		ExpiresAt: &expires,
	}
	if role, ok := domain.ParseRole(claims.Role); ok {
		res.Role = &role
	}
	return res
}

// ExtractExpiration returns the embedded expiry of a correctly signed token,
// whether or not it has passed.
func (v *TokenValidator) ExtractExpiration(token string) (time.Time, error) {
	return v.codec.Expiration(token)
}

// claims parses token and rejects payloads without a usable subject or user id.
func (v *TokenValidator) claims(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	claims, err := v.codec.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}
	if uid, err := uuid.Parse(claims.UserID); err != nil || uid == uuid.Nil {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
