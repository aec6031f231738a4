package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, window), mr
}

func TestLoginThrottle_BlocksAfterLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := throttle.Blocked(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, blocked, "attempt %d", i)
		require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	}

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = throttle.Blocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, blocked, "counters are per username")
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login:fail:alice"))

	// later failures do not extend the window
	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	mr.FastForward(30 * time.Second)
	assert.Equal(t, 30*time.Second, mr.TTL("login:fail:alice"))

	mr.FastForward(31 * time.Second)
	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginThrottle_Reset(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	require.NoError(t, throttle.Reset(ctx, "alice"))
	assert.False(t, mr.Exists("login:fail:alice"))
}

func TestLoginThrottle_StoreDown(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1, time.Minute)
	mr.Close()

	_, err := throttle.Blocked(context.Background(), "alice")
	assert.Error(t, err)
	assert.Error(t, throttle.RecordFailure(context.Background(), "alice"))
}

// refuseExpire fails every standalone EXPIRE/PEXPIRE sent by the client.
type refuseExpire struct{}

func (refuseExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (refuseExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch cmd.Name() {
		case "expire", "pexpire":
			return errors.New("expire refused")
		}
		return next(ctx, cmd)
	}
}

func (refuseExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestLoginThrottle_WindowSetWithCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	client.AddHook(refuseExpire{})

	throttle := NewLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login:fail:alice"))

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(time.Minute + time.Second)
	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked, "lockout must end with the window")
}

func TestLoginThrottle_RepairsCounterWithoutExpiry(t *testing.T) {
	throttle, mr := newTestThrottle(t, 5, time.Minute)
	require.NoError(t, mr.Set("login:fail:alice", "3"))

	require.NoError(t, throttle.RecordFailure(context.Background(), "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login:fail:alice"))

	n, err := mr.Get("login:fail:alice")
	require.NoError(t, err)
	assert.Equal(t, "4", n)
}
