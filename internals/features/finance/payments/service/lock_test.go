package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLockBusy)

	other, err := l.Acquire(ctx, "other")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_DropsIdleSlots(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()
	slots := func() int {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.slots)
	}

	for i := 0; i < 50; i++ {
		release, err := l.Acquire(ctx, fmt.Sprintf("lock:payment:%d:1st Year", i))
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, 0, slots())

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.Equal(t, 1, slots(), "held slot survives a timed-out waiter")

	release()
	assert.Equal(t, 0, slots())
}

func TestLocalLocker_HandsOverToWaiter(t *testing.T) {
	l := NewLocalLocker(time.Second)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	acquired := make(chan func(), 1)
	go func() {
		next, err := l.Acquire(ctx, "k")
		if err == nil {
			acquired <- next
		}
	}()

	// let the waiter register before the holder lets go
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.slots["k"] != nil && l.slots["k"].refs == 2
	}, time.Second, time.Millisecond)
	release()

	select {
	case next := <-acquired:
		next()
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	l.mu.Lock()
	assert.Empty(t, l.slots)
	l.mu.Unlock()
}

func newRedisLocker(t *testing.T, ttl, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, ttl, wait), mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	l, mr := newRedisLocker(t, time.Minute, 100*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "lock:payment:u:1st Year")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:payment:u:1st Year"))

	_, err = l.Acquire(ctx, "lock:payment:u:1st Year")
	assert.ErrorIs(t, err, ErrLockBusy)

	release()
	assert.False(t, mr.Exists("lock:payment:u:1st Year"))

	release2, err := l.Acquire(ctx, "lock:payment:u:1st Year")
	require.NoError(t, err)
	release2()
}

func TestRedisLocker_ReleaseKeepsForeignLease(t *testing.T) {
	l, mr := newRedisLocker(t, time.Minute, 50*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	// lease expired and another holder took it
	require.NoError(t, mr.Set("k", "someone-else"))
	release()

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_LeaseExpires(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second, 50*time.Millisecond)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	release()
}

func TestRedisLocker_DefaultLeaseOutlivesGatewayCall(t *testing.T) {
	l, mr := newRedisLocker(t, 0, 50*time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, mr.TTL("k"), GatewayCallTimeout)

	// a gateway call that runs into its client timeout still finds the lease held
	mr.FastForward(GatewayCallTimeout + time.Second)
	require.True(t, mr.Exists("k"))
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrLockBusy)

	release()
	assert.False(t, mr.Exists("k"))
}
