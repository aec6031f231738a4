// Package token signs and verifies the bearer tokens issued at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/energy-platform/mesh/internal/core/domain"
)

const (
	minKeyLen  = 32
	defaultTTL = 24 * time.Hour
)

// Config holds the signing key and token lifetime. Now defaults to time.Now.
type Config struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

// identityClaims is the JWT payload: sub carries the username.
type identityClaims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec implements ports.TokenCodec with HS256.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time

	parser    *jwt.Parser
	expParser *jwt.Parser
}

// NewCodec validates cfg and builds a Codec. TTL is applied with second
// precision because JWT numeric dates carry whole seconds.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < minKeyLen {
		return nil, domain.ErrSigningKeyTooShort
	}
	ttl := cfg.TTL.Truncate(time.Second)
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	methods := jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})
	return &Codec{
		key:       []byte(cfg.Secret),
		ttl:       ttl,
		now:       now,
		parser:    jwt.NewParser(methods, jwt.WithExpirationRequired(), jwt.WithTimeFunc(now)),
		expParser: jwt.NewParser(methods, jwt.WithoutClaimsValidation()),
	}, nil
}

// TTL returns the effective token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token for id. The returned value is complete before it is
// handed out; nothing is stored.
func (c *Codec) Issue(id domain.Identity) (domain.Token, error) {
	if !id.Role.Valid() {
		return domain.Token{}, fmt.Errorf("issue token: %w", domain.ErrInvalidRole)
	}

	issued := c.now().UTC().Truncate(time.Second)
	expires := issued.Add(c.ttl)
	claims := identityClaims{
		UID:  id.UserID.String(),
		Role: id.Role.Header(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return domain.Token{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.Token{Value: signed, ExpiresAt: expires}, nil
}

// Parse verifies the signature and expiry of raw and returns its claims.
func (c *Codec) Parse(raw string) (*domain.Claims, error) {
	var claims identityClaims
	if _, err := c.parser.ParseWithClaims(raw, &claims, c.keyFunc); err != nil {
		return nil, classify(err)
	}

	out := &domain.Claims{
		Subject: claims.Subject,
		UserID:  claims.UID,
		Role:    claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	return out, nil
}

// Expiration returns the expiry of a correctly signed token, expired or not.
func (c *Codec) Expiration(raw string) (time.Time, error) {
	var claims identityClaims
	if _, err := c.expParser.ParseWithClaims(raw, &claims, c.keyFunc); err != nil {
		return time.Time{}, classify(err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", domain.ErrTokenMalformed)
	}
	return claims.ExpiresAt.Time.UTC(), nil
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.key, nil
}

// classify collapses jwt errors onto the domain token errors.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", domain.ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
	}
}
