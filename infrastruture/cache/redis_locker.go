package cache

import (
	"context"
	"time"

	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

var _ i.Locker = &RedisLocker{}

// RedisLocker hands out redsync mutexes so that replicas serialize writes to
// the same session.
type RedisLocker struct {
	locker *redsync.Redsync
	expiry time.Duration
}

// NewRedisLocker initializes a RedisLocker. A lock not released within
// expirySeconds is dropped by Redis.
func NewRedisLocker(client *redis.Client, expirySeconds int) *RedisLocker {
	pool := goredis.NewPool(client)
	return &RedisLocker{
		locker: redsync.New(pool),
		expiry: time.Duration(expirySeconds) * time.Second,
	}
}

// Lock blocks until the mutex for key is held or ctx is done.
func (rl *RedisLocker) Lock(ctx context.Context, key string) (i.UnlockFunc, error) {
	opts := []redsync.Option{}
	if rl.expiry > 0 {
		opts = append(opts, redsync.WithExpiry(rl.expiry))
	}

	mutex := rl.locker.NewMutex(key, opts...)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}, nil
}
