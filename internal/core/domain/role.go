package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of privileges an identity can hold.
// The zero value is not a role; it stands for "absent".
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleClient
)

// Trust header values carried in X-Role.
const (
	RoleHeaderPrefix = "ROLE_"
	RoleHeaderAdmin  = "ROLE_ADMIN"
	RoleHeaderUser   = "ROLE_USER"
)

// ParseRole maps any input string onto the role set. It strips a "ROLE_"
// prefix and compares case-insensitively; "USER" is an alias of CLIENT.
// ok is false for anything it does not recognise. It never fails.
func ParseRole(s string) (r Role, ok bool) {
	v := strings.TrimSpace(s)
	if len(v) >= len(RoleHeaderPrefix) && strings.EqualFold(v[:len(RoleHeaderPrefix)], RoleHeaderPrefix) {
		v = v[len(RoleHeaderPrefix):]
	}
	switch strings.ToUpper(v) {
	case "ADMIN":
		return RoleAdmin, true
	case "CLIENT", "USER":
		return RoleClient, true
	default:
		return 0, false
	}
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleClient:
		return "CLIENT"
	default:
		return ""
	}
}

// Header returns the X-Role value for r.
func (r Role) Header() string {
	if r == RoleAdmin {
		return RoleHeaderAdmin
	}
	return RoleHeaderUser
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role %d: %w", r, ErrInvalidRole)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, ok := ParseRole(string(b))
	if !ok {
		return fmt.Errorf("unmarshal role %q: %w", string(b), ErrInvalidRole)
	}
	*r = parsed
	return nil
}
