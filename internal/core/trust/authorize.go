package trust

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// Check decides whether an assertion may proceed. It returns nil,
// ErrUnauthenticated or ErrForbidden (possibly wrapped).
type Check func(a Assertion) error

// Authorize runs check against the raw header values of a request.
func Authorize(check Check, presentedRole, presentedUserID string) error {
	return check(Assertion{Role: presentedRole, UserID: presentedUserID})
}

// AdminOnly allows only ROLE_ADMIN. The user id is not consulted.
func AdminOnly() Check {
	return func(a Assertion) error {
		if a.Role == "" {
			return unauthenticated("missing " + HeaderRole + " header")
		}
		if !a.IsAdmin() {
			return forbidden("admin role required")
		}
		return nil
	}
}

// SelfOrAdmin allows an admin, or the caller whose id equals owner.
// A nil owner is reachable by admins only.
func SelfOrAdmin(owner *uuid.UUID) Check {
	return func(a Assertion) error {
		caller, err := identify(a)
		if err != nil {
			return err
		}
		if a.IsAdmin() {
			return nil
		}
		if owner == nil {
			return forbidden("resource has no owner")
		}
		if *owner != caller {
			return forbidden("caller does not own resource")
		}
		return nil
	}
}

// SelfOnly is the assign-style check: the caller may act on target only when
// target is themselves, whatever their role, unless they are admin.
func SelfOnly(target uuid.UUID) Check {
	return func(a Assertion) error {
		caller, err := identify(a)
		if err != nil {
			return err
		}
		if caller == target || a.IsAdmin() {
			return nil
		}
		return forbidden("caller may only act on themselves")
	}
}

// Authenticated requires a well-formed user id and nothing else.
func Authenticated() Check {
	return func(a Assertion) error {
		_, err := a.Caller()
		return err
	}
}

// Identified requires both headers to be present and well formed. Handlers
// run it before loading a resource so anonymous callers never learn whether
// it exists.
func Identified() Check {
	return func(a Assertion) error {
		_, err := identify(a)
		return err
	}
}

// identify requires both headers. The user id is required even for admins so
// a malformed id is never mistaken for an owner-less call.
func identify(a Assertion) (uuid.UUID, error) {
	if a.Role == "" {
		return uuid.Nil, unauthenticated("missing " + HeaderRole + " header")
	}
	return a.Caller()
}

func unauthenticated(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, reason)
}

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, reason)
}
