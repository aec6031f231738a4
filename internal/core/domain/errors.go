package domain

import "errors"

// Trust errors.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
)

// Credential errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Token errors. Every specific failure wraps ErrTokenInvalid so callers that
// only care about validity can match on that.
var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMalformed     = wrapTokenErr("token malformed")
	ErrTokenSignature     = wrapTokenErr("token signature invalid")
	ErrTokenExpired       = wrapTokenErr("token expired")
	ErrSigningKeyTooShort = errors.New("signing key must be at least 32 bytes")
)

// Peer errors. ErrPeerUnavailable is the transient failure class for
// best-effort calls; it is logged and dropped where it happens.
var (
	ErrPeerUnavailable = errors.New("peer service unavailable")
	ErrBridgeQueueFull = errors.New("profile bridge queue full")
)

// Resource errors.
var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrProfileNotFound = errors.New("user not found")
	ErrProfileExists   = errors.New("user already exists")
	ErrEmailTaken      = errors.New("email already registered")
	ErrIDMismatch      = errors.New("payload id does not match target id")
)

type tokenErr struct{ msg string }

func (e *tokenErr) Error() string { return e.msg }
func (e *tokenErr) Unwrap() error { return ErrTokenInvalid }

func wrapTokenErr(msg string) error { return &tokenErr{msg: msg} }
