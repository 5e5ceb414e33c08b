package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSentCache marks recipients as recently messaged. Keys expire after the
// configured TTL, so "was this number blasted today" stays answerable without
// scanning history files. This is a sent-log only; the daily quota counter is
// deliberately in-memory and never backed by Redis.
type RedisSentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSentCache wraps an existing redis client.
func NewRedisSentCache(rdb *redis.Client, ttl time.Duration) *RedisSentCache {
	return &RedisSentCache{rdb: rdb, ttl: ttl}
}

// MarkSent records the send moment for a normalized recipient.
func (c *RedisSentCache) MarkSent(ctx context.Context, recipient string) error {
	key := fmt.Sprintf("sent:%s", recipient)
	return c.rdb.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), c.ttl).Err()
}
