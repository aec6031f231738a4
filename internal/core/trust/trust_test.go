package trust

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energy-platform/mesh/internal/core/domain"
)

func TestToHeaders(t *testing.T) {
	id := uuid.New()

	h := ToHeaders(domain.Identity{Username: "root", UserID: id, Role: domain.RoleAdmin})
	assert.Equal(t, "ROLE_ADMIN", h.Get(HeaderRole))
	assert.Equal(t, id.String(), h.Get(HeaderUserID))

	h = ToHeaders(domain.Identity{Username: "alice", UserID: id, Role: domain.RoleClient})
	assert.Equal(t, "ROLE_USER", h.Get(HeaderRole))
}

func TestFromHeaders_RoundTrip(t *testing.T) {
	id := uuid.New()
	h := http.Header{}
	FromIdentity(domain.Identity{UserID: id, Role: domain.RoleClient}).Apply(h)

	a := FromHeaders(h)
	caller, err := a.Caller()
	require.NoError(t, err)
	assert.Equal(t, id, caller)
	assert.False(t, a.IsAdmin())
}

func TestElevated(t *testing.T) {
	h := http.Header{}
	Elevated(uuid.Nil).Apply(h)
	assert.Equal(t, "ROLE_ADMIN", h.Get(HeaderRole))
	assert.Empty(t, h.Values(HeaderUserID))

	owner := uuid.New()
	h = http.Header{}
	Elevated(owner).Apply(h)
	assert.Equal(t, owner.String(), h.Get(HeaderUserID))
}

func TestAdminOnly(t *testing.T) {
	assert.NoError(t, Authorize(AdminOnly(), "ROLE_ADMIN", ""))
	assert.ErrorIs(t, Authorize(AdminOnly(), "", uuid.NewString()), domain.ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(AdminOnly(), "ROLE_USER", uuid.NewString()), domain.ErrForbidden)
	// exact match on the prefixed form only
	assert.ErrorIs(t, Authorize(AdminOnly(), "ADMIN", ""), domain.ErrForbidden)
	assert.ErrorIs(t, Authorize(AdminOnly(), "role_admin", ""), domain.ErrForbidden)
}

func TestSelfOrAdmin(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		owner  *uuid.UUID
		role   string
		caller string
		want   error
	}{
		{"ownerless non-admin", nil, "ROLE_USER", other.String(), domain.ErrForbidden},
		{"ownerless admin", nil, "ROLE_ADMIN", other.String(), nil},
		{"owner matches", &owner, "ROLE_USER", owner.String(), nil},
		{"owner mismatch non-admin", &owner, "ROLE_USER", other.String(), domain.ErrForbidden},
		{"owner mismatch admin", &owner, "ROLE_ADMIN", other.String(), nil},
		{"missing role", &owner, "", owner.String(), domain.ErrUnauthenticated},
		{"missing user id", &owner, "ROLE_USER", "", domain.ErrUnauthenticated},
		{"malformed user id", nil, "ROLE_USER", "not-a-uuid", domain.ErrUnauthenticated},
		{"malformed user id admin", nil, "ROLE_ADMIN", "42", domain.ErrUnauthenticated},
		{"nil uuid", &owner, "ROLE_USER", uuid.Nil.String(), domain.ErrUnauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(SelfOrAdmin(tc.owner), tc.role, tc.caller)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSelfOnly(t *testing.T) {
	target := uuid.New()

	assert.NoError(t, Authorize(SelfOnly(target), "ROLE_USER", target.String()))
	assert.NoError(t, Authorize(SelfOnly(target), "ROLE_ADMIN", uuid.NewString()))
	assert.ErrorIs(t, Authorize(SelfOnly(target), "ROLE_USER", uuid.NewString()), domain.ErrForbidden)
	assert.ErrorIs(t, Authorize(SelfOnly(target), "ROLE_USER", "garbage"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(SelfOnly(target), "", target.String()), domain.ErrUnauthenticated)
}

func TestAuthenticated(t *testing.T) {
	assert.NoError(t, Authorize(Authenticated(), "", uuid.NewString()))
	assert.ErrorIs(t, Authorize(Authenticated(), "ROLE_ADMIN", ""), domain.ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(Authenticated(), "ROLE_ADMIN", "xyz"), domain.ErrUnauthenticated)
}

func TestIdentified(t *testing.T) {
	assert.NoError(t, Authorize(Identified(), "ROLE_USER", uuid.NewString()))
	assert.ErrorIs(t, Authorize(Identified(), "", uuid.NewString()), domain.ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(Identified(), "ROLE_ADMIN", ""), domain.ErrUnauthenticated)
}
