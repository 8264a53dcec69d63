package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdecl/internal/config"
	"taxdecl/internal/domain"
	"taxdecl/internal/lock"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
)

func newRedisLocker(t *testing.T, wait time.Duration) (port.OwnerLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.RedisConfig{
		LockTTL:   30 * time.Second,
		LockWait:  wait,
		KeyPrefix: "taxdecl:owner-lock:",
	}
	return lock.NewRedisLocker(rdb, cfg, logging.Discard()), mr
}

func TestRedisLocker_ObtainAndRelease(t *testing.T) {
	locker, mr := newRedisLocker(t, time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("taxdecl:owner-lock:user:1"))

	unlock()
	assert.False(t, mr.Exists("taxdecl:owner-lock:user:1"))

	unlock, err = locker.Lock(ctx, "user:1")
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_ContendedKeyTimesOut(t *testing.T) {
	locker, _ := newRedisLocker(t, 300*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "session:abc")
	require.NoError(t, err)
	defer unlock()

	start := time.Now()
	_, err = locker.Lock(ctx, "session:abc")
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)

	// Other owners are unaffected.
	other, err := locker.Lock(ctx, "session:xyz")
	require.NoError(t, err)
	other()
}

func TestRedisLocker_WaiterObtainsAfterRelease(t *testing.T) {
	locker, _ := newRedisLocker(t, 3*time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "user:2")
	require.NoError(t, err)

	released := make(chan struct{})
	go func() {
		time.Sleep(150 * time.Millisecond)
		unlock()
		close(released)
	}()

	second, err := locker.Lock(ctx, "user:2")
	require.NoError(t, err)
	<-released
	second()
}

func TestRedisLocker_ExpiredLockCanBeRetaken(t *testing.T) {
	locker, mr := newRedisLocker(t, 200*time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "user:3")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	fresh, err := locker.Lock(ctx, "user:3")
	require.NoError(t, err)
	// Releasing the expired lock must not drop the new holder's key.
	stale()
	assert.True(t, mr.Exists("taxdecl:owner-lock:user:3"))
	fresh()
}

func TestRedisLocker_RedisUnavailable(t *testing.T) {
	locker, mr := newRedisLocker(t, 200*time.Millisecond)
	mr.Close()

	_, err := locker.Lock(context.Background(), "user:4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLockNotObtained)
}
