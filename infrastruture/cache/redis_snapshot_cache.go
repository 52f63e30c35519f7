package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyFmt = "%s:session:%s:snapshot"

var _ i.SnapshotCache = &RedisSnapshotCache{}

// RedisSnapshotCache keeps session records as JSON strings with a TTL.
type RedisSnapshotCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSnapshotCache initializes a RedisSnapshotCache with the provided Redis client and TTL.
func NewRedisSnapshotCache(client *redis.Client, prefix string, ttlSeconds int) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the cached record. A missing key is a miss, not an error.
func (c *RedisSnapshotCache) Get(ctx context.Context, id uuid.UUID) (*i.SessionRecord, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var record i.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

// Set stores the record until the TTL expires.
func (c *RedisSnapshotCache) Set(ctx context.Context, record *i.SessionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(record.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached record, if any.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *RedisSnapshotCache) key(id uuid.UUID) string {
	return fmt.Sprintf(snapshotKeyFmt, c.prefix, id)
}
