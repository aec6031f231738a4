package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energy-platform/mesh/internal/core/domain"
)

const testSecret = "codec-test-secret-that-is-32-bytes-or-more"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestCodec(t *testing.T, secret string, ttl time.Duration, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: secret, TTL: ttl, Now: fixedClock(now)})
	require.NoError(t, err)
	return c
}

func TestCodec_IssueParseRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, testSecret, time.Hour, now)

	ids := []domain.Identity{
		{Username: "alice", UserID: uuid.New(), Role: domain.RoleAdmin},
		{Username: "bob", UserID: uuid.New(), Role: domain.RoleClient},
	}

	for _, id := range ids {
		tok, err := codec.Issue(id)
		require.NoError(t, err)
		assert.NotEmpty(t, tok.Value)
		assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)

		claims, err := codec.Parse(tok.Value)
		require.NoError(t, err)
		assert.Equal(t, id.Username, claims.Subject)
		assert.Equal(t, id.UserID.String(), claims.UserID)
		assert.Equal(t, id.Role.Header(), claims.Role)
		assert.Equal(t, now, claims.IssuedAt)
		assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt)
	}
}

func TestCodec_IssueTruncatesToSeconds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 700_000_000, time.UTC)
	codec := newTestCodec(t, testSecret, 90*time.Minute, now)

	tok, err := codec.Issue(domain.Identity{Username: "alice", UserID: uuid.New(), Role: domain.RoleClient})
	require.NoError(t, err)

	claims, err := codec.Parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, tok.ExpiresAt, claims.ExpiresAt)
	assert.Equal(t, claims.IssuedAt.Add(90*time.Minute), claims.ExpiresAt)
}

func TestCodec_ExpiredTokenStillReportsExpiration(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newTestCodec(t, testSecret, time.Minute, issuedAt)
	tok, err := issuer.Issue(domain.Identity{Username: "alice", UserID: uuid.New(), Role: domain.RoleClient})
	require.NoError(t, err)

	later := newTestCodec(t, testSecret, time.Minute, issuedAt.Add(time.Hour))

	_, err = later.Parse(tok.Value)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	exp, err := later.Expiration(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Minute), exp)
}

func TestCodec_WrongKey(t *testing.T) {
	now := time.Now()
	issuer := newTestCodec(t, testSecret, time.Hour, now)
	other := newTestCodec(t, "a-completely-different-secret-of-32-bytes", time.Hour, now)

	tok, err := issuer.Issue(domain.Identity{Username: "alice", UserID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = other.Parse(tok.Value)
	assert.ErrorIs(t, err, domain.ErrTokenSignature)

	_, err = other.Expiration(tok.Value)
	assert.ErrorIs(t, err, domain.ErrTokenSignature)
}

func TestCodec_TamperedPayload(t *testing.T) {
	codec := newTestCodec(t, testSecret, time.Hour, time.Now())

	tok, err := codec.Issue(domain.Identity{Username: "alice", UserID: uuid.New(), Role: domain.RoleClient})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)

	forged, err := json.Marshal(map[string]any{
		"sub":  "mallory",
		"uid":  uuid.NewString(),
		"role": domain.RoleHeaderAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = codec.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, domain.ErrTokenSignature)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t, testSecret, time.Hour, time.Now())

	claims := jwt.MapClaims{
		"sub":  "alice",
		"uid":  uuid.NewString(),
		"role": domain.RoleHeaderAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Parse(hs512)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Parse(none)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestCodec_Malformed(t *testing.T) {
	codec := newTestCodec(t, testSecret, time.Hour, time.Now())

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrTokenMalformed, raw)
	}
}

func TestCodec_MissingExpiryIsInvalid(t *testing.T) {
	codec := newTestCodec(t, testSecret, time.Hour, time.Now())

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"uid": uuid.NewString(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Parse(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = codec.Expiration(raw)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestNewCodec_Config(t *testing.T) {
	_, err := NewCodec(Config{Secret: "short"})
	assert.ErrorIs(t, err, domain.ErrSigningKeyTooShort)

	c, err := NewCodec(Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, c.TTL())
}

func TestCodec_IssueRejectsAbsentRole(t *testing.T) {
	codec := newTestCodec(t, testSecret, time.Hour, time.Now())

	_, err := codec.Issue(domain.Identity{Username: "alice", UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
