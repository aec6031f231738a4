package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthOption customises an Authenticator.
type AuthOption func(*Authenticator)

// WithProfileBridge sets the peer that receives new identities.
func WithProfileBridge(b ports.ProfileBridge) AuthOption {
	return func(a *Authenticator) { a.bridge = b }
}

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t LoginThrottle) AuthOption {
	return func(a *Authenticator) { a.throttle = t }
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) AuthOption {
	return func(a *Authenticator) { a.cost = cost }
}

// Authenticator implements registration and login.
type Authenticator struct {
	repo     ports.CredentialRepository
	codec    ports.TokenCodec
	bridge   ports.ProfileBridge
	throttle LoginThrottle
	cost     int
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthenticator(repo ports.CredentialRepository, codec ports.TokenCodec, log zerolog.Logger, opts ...AuthOption) *Authenticator {
	a := &Authenticator{repo: repo, codec: codec, cost: bcrypt.DefaultCost, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates a credential and returns a token for it. The companion
// profile is requested from the peer afterwards; its outcome never fails the
// registration.
func (a *Authenticator) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == 0 {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	exists, err := a.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	cred, err := a.repo.Create(ctx, &domain.Credential{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	a.announce(ctx, cred)

	a.log.Info().Str("user_id", cred.ID.String()).Str("role", cred.Role.String()).Msg("credential registered")
	return a.issue(cred)
}

// announce hands the new identity to the profile bridge. Blank emails are
// skipped because the peer rejects them.
func (a *Authenticator) announce(ctx context.Context, cred *domain.Credential) {
	if a.bridge == nil || cred.Email == "" {
		return
	}
	seed := ports.ProfileSeed{ID: cred.ID, Username: cred.Username, Email: cred.Email}
	if err := a.bridge.OnIdentityCreated(ctx, seed); err != nil {
		a.log.Warn().Err(err).Str("user_id", cred.ID.String()).Msg("profile bridge failed, continuing")
	}
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords produce the same ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if a.throttle != nil {
		blocked, err := a.throttle.Blocked(ctx, username)
		if err != nil {
			a.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	cred, err := a.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrCredentialNotFound):
		_ = bcrypt.CompareHashAndPassword(a.dummy(), []byte(password))
		a.fail(ctx, username)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		a.fail(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if a.throttle != nil {
		if err := a.throttle.Reset(ctx, username); err != nil {
			a.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	return a.issue(cred)
}

// Me returns the credential behind a username taken from a verified token.
func (a *Authenticator) Me(ctx context.Context, username string) (*domain.Credential, error) {
	return a.repo.FindByUsername(ctx, username)
}

func (a *Authenticator) issue(cred *domain.Credential) (*ports.AuthResult, error) {
	tok, err := a.codec.Issue(cred.Identity())
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		UserID:    cred.ID,
		Username:  cred.Username,
		Role:      cred.Role,
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}

func (a *Authenticator) fail(ctx context.Context, username string) {
	if a.throttle == nil {
		return
	}
	if err := a.throttle.RecordFailure(ctx, username); err != nil {
		a.log.Warn().Err(err).Msg("login throttle record failed")
	}
}

// dummy is compared against when the username does not exist so both
// failure paths pay for one bcrypt comparison.
func (a *Authenticator) dummy() []byte {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), a.cost)
	})
	return a.dummyHash
}
