package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GatewayCallTimeout bounds one HTTP round trip to the payment gateway.
// It must stay well below the lease TTL so a held lock never expires mid-call.
const GatewayCallTimeout = 20 * time.Second

const (
	defaultLockWait = 5 * time.Second
	defaultLockTTL  = 3 * GatewayCallTimeout
	lockRetryEvery  = 50 * time.Millisecond
)

func paymentLockKey(userID uuid.UUID, year string) string {
	return "lock:payment:" + userID.String() + ":" + year
}

/* =========================================================
   In-process keyed lock
========================================================= */

type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
	wait  time.Duration
}

// lockSlot counts the holder plus waiters; the slot is dropped when that reaches zero.
type lockSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &LocalLocker{slots: map[string]*lockSlot{}, wait: wait}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.unref(key, slot)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, slot)
		return nil, ErrLockBusy
	}
}

func (l *LocalLocker) unref(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 && l.slots[key] == slot {
		delete(l.slots, key)
	}
}

/* =========================================================
   Redis lease lock (SET NX PX, token-checked release)
========================================================= */

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if ttl <= GatewayCallTimeout {
		log.WithFields(log.Fields{
			"ttl":             ttl,
			"gateway_timeout": GatewayCallTimeout,
		}).Warn("[LOCK] lease ttl does not cover a gateway call")
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &RedisLocker{client: client, ttl: ttl, wait: wait}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockBusy
		case <-time.After(lockRetryEvery):
		}
	}

	release := func() {
		// the request context may already be done; release on a fresh one
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			log.WithError(err).WithField("key", key).Warn("[LOCK] release failed, lease will expire")
		}
	}
	return release, nil
}
