// Package trust carries identity between internal services as plain headers
// and authorizes calls from them without touching the signed token.
//
// The headers are not signed. Any service that reads them trusts its network
// perimeter: only the auth boundary, which holds the signing key, may set them
// from a verified token.
package trust

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/energy-platform/mesh/internal/core/domain"
)

// Header names used on internal calls.
const (
	HeaderRole   = "X-Role"
	HeaderUserID = "X-User-Id"
	HeaderUser   = "X-User"
)

// Assertion is the raw (role, user id) pair presented on an internal request.
// Values are kept exactly as received; checks interpret them.
type Assertion struct {
	Role   string
	UserID string
}

// FromIdentity restates a verified identity as an assertion.
func FromIdentity(id domain.Identity) Assertion {
	return Assertion{Role: id.Role.Header(), UserID: id.UserID.String()}
}

// Elevated is the admin assertion a service attaches to its own peer calls.
// onBehalfOf is sent as X-User-Id unless it is uuid.Nil.
func Elevated(onBehalfOf uuid.UUID) Assertion {
	a := Assertion{Role: domain.RoleHeaderAdmin}
	if onBehalfOf != uuid.Nil {
		a.UserID = onBehalfOf.String()
	}
	return a
}

// FromHeaders reads an assertion off an incoming request.
func FromHeaders(h http.Header) Assertion {
	return Assertion{
		Role:   strings.TrimSpace(h.Get(HeaderRole)),
		UserID: strings.TrimSpace(h.Get(HeaderUserID)),
	}
}

// ToHeaders maps a verified identity to the internal trust headers.
func ToHeaders(id domain.Identity) http.Header {
	h := make(http.Header, 2)
	FromIdentity(id).Apply(h)
	return h
}

// Apply writes the non-blank parts of a onto h.
func (a Assertion) Apply(h http.Header) {
	if a.Role != "" {
		h.Set(HeaderRole, a.Role)
	}
	if a.UserID != "" {
		h.Set(HeaderUserID, a.UserID)
	}
}

// IsAdmin is an exact match on the prefixed admin value.
func (a Assertion) IsAdmin() bool {
	return a.Role == domain.RoleHeaderAdmin
}

// Caller parses the presented user id. A missing or malformed id is
// ErrUnauthenticated, never "no user".
func (a Assertion) Caller() (uuid.UUID, error) {
	if a.UserID == "" {
		return uuid.Nil, unauthenticated("missing " + HeaderUserID + " header")
	}
	id, err := uuid.Parse(a.UserID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, unauthenticated("malformed " + HeaderUserID + " header")
	}
	return id, nil
}
