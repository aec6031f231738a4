package peer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

func TestProfileClient_PostsElevatedProfile(t *testing.T) {
	id := uuid.New()
	var got profileRequest
	var role, userID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		role = r.Header.Get("X-Role")
		userID = r.Header.Get("X-User-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewProfileClient(srv.URL+"/", NewHTTPClient(time.Second))
	err := c.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: id, Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "ROLE_ADMIN", role)
	assert.Empty(t, userID)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "alice", got.FirstName)
	assert.Equal(t, "alice", got.LastName)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestProfileClient_PlaceholderName(t *testing.T) {
	var got profileRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewProfileClient(srv.URL, NewHTTPClient(time.Second))
	require.NoError(t, c.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New(), Email: "x@example.com"}))
	assert.Equal(t, "User", got.FirstName)
	assert.Equal(t, "User", got.LastName)
}

func TestProfileClient_BlankEmailSkipsCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewProfileClient(srv.URL, NewHTTPClient(time.Second))
	for _, email := range []string{"", "  \t"} {
		assert.NoError(t, c.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New(), Username: "bob", Email: email}))
	}
	assert.Zero(t, calls.Load())
}

func TestProfileClient_PeerFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	c := NewProfileClient(srv.URL, NewHTTPClient(time.Second))

	err := c.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New(), Username: "carol", Email: "c@example.com"})
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)

	srv.Close()
	err = c.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New(), Username: "carol", Email: "c@example.com"})
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
}

func TestDeviceClient_FetchOwnedDevices(t *testing.T) {
	owner := uuid.New()
	want := []domain.Device{{ID: uuid.New(), Name: "heater", MaximumConsumption: 2, OwnerID: &owner}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/owner/"+owner.String(), r.URL.Path)
		assert.Equal(t, "ROLE_ADMIN", r.Header.Get("X-Role"))
		assert.Equal(t, owner.String(), r.Header.Get("X-User-Id"))
		assert.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := NewDeviceClient(srv.URL, NewHTTPClient(time.Second))
	got, err := c.FetchOwnedDevices(context.Background(), owner, "Bearer caller-token")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.True(t, got[0].OwnedBy(owner))
}

func TestDeviceClient_EmptyBodyIsEmptyList(t *testing.T) {
	for _, body := range []string{"", "null", "[]"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		c := NewDeviceClient(srv.URL, NewHTTPClient(time.Second))
		got, err := c.FetchOwnedDevices(context.Background(), uuid.New(), "")
		require.NoError(t, err, body)
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
		srv.Close()
	}
}

func TestDeviceClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewDeviceClient(srv.URL, NewHTTPClient(time.Second))
	_, err := c.FetchOwnedDevices(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrPeerUnavailable)
}

type recordingBridge struct {
	mu    sync.Mutex
	seeds []ports.ProfileSeed
	err   error
	block chan struct{}
}

func (b *recordingBridge) OnIdentityCreated(_ context.Context, seed ports.ProfileSeed) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seeds = append(b.seeds, seed)
	return b.err
}

func (b *recordingBridge) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seeds)
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	target := &recordingBridge{}
	d := NewDispatcher(target, 2, 16, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, d.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New(), Email: "x@example.com"}))
	}
	d.Close()

	assert.Equal(t, 10, target.count())
	assert.ErrorIs(t, d.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New()}), domain.ErrBridgeQueueFull)
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	target := &recordingBridge{block: make(chan struct{})}
	d := NewDispatcher(target, 1, 1, zerolog.Nop())

	// No workers yet, so the single slot fills and the next seed is dropped.
	require.NoError(t, d.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New()}))
	assert.ErrorIs(t, d.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New()}), domain.ErrBridgeQueueFull)

	d.Start(context.Background())
	close(target.block)
	d.Close()
	assert.Equal(t, 1, target.count())
}

func TestDispatcher_CancelledRequestContextStillDelivers(t *testing.T) {
	target := &recordingBridge{}
	d := NewDispatcher(target, 1, 4, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.OnIdentityCreated(ctx, ports.ProfileSeed{ID: uuid.New()}))
	cancel()

	d.Start(context.Background())
	d.Close()
	assert.Equal(t, 1, target.count())
}

func TestDispatcher_FailuresAreAbsorbed(t *testing.T) {
	target := &recordingBridge{err: domain.ErrPeerUnavailable}
	d := NewDispatcher(target, 1, 4, zerolog.Nop())
	d.Start(context.Background())

	require.NoError(t, d.OnIdentityCreated(context.Background(), ports.ProfileSeed{ID: uuid.New()}))
	d.Close()
	assert.Equal(t, 1, target.count())
}
