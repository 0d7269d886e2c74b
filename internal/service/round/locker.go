package round

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErr "casino-engine/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Locker serializes round operations for one player. A round is owned by a
// single session; the lock keeps two replicas (or a double-submitting
// client) from acting on the same player's round concurrently.
type Locker interface {
	Acquire(ctx context.Context, playerID int64) (release func(), err error)
}

const lockTTL = 10 * time.Second

type redisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client) Locker {
	return &redisLocker{rdb: rdb, ttl: lockTTL}
}

func (l *redisLocker) Acquire(ctx context.Context, playerID int64) (func(), error) {
	key := buildLockKey(playerID)
	got, err := l.rdb.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !got {
		return nil, appErr.ErrRoundBusy
	}
	release := func() {
		// Release even if the request context was canceled.
		l.rdb.Del(context.Background(), key)
	}
	return release, nil
}

func buildLockKey(playerID int64) string {
	return fmt.Sprintf("round:lock:%d", playerID)
}

// MemoryLocker is the in-process Locker used by tests and single-node
// deployments without Redis.
type MemoryLocker struct {
	mu    sync.Mutex
	taken map[int64]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{taken: make(map[int64]bool)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, playerID int64) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.taken[playerID] {
		return nil, appErr.ErrRoundBusy
	}
	l.taken[playerID] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.taken, playerID)
	}
	return release, nil
}
