package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSegmentTTL = 30 * 24 * time.Hour

// Redis-backed cache for routed segment geometry. Road geometry is
// slow-changing, so entries carry a long TTL instead of invalidation.
type RedisSegmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSegmentCache(client *redis.Client, ttl time.Duration) *RedisSegmentCache {
	if ttl <= 0 {
		ttl = defaultSegmentTTL
	}
	return &RedisSegmentCache{client: client, ttl: ttl}
}

func segmentRedisKey(origin, destination string) string {
	return "segment:" + origin + "|" + destination
}

// Fetch cached geometry for one directed pair.
func (r *RedisSegmentCache) Get(ctx context.Context, origin, destination string) (string, bool, error) {
	if r.client == nil {
		return "", false, errors.New("segment cache: redis client is nil")
	}
	if origin == "" || destination == "" {
		return "", false, errors.New("get segment cache: origin and destination must be non-empty")
	}

	geometry, err := r.client.Get(ctx, segmentRedisKey(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get segment cache: redis get: %w", err)
	}

	return geometry, true, nil
}

// Store geometry for one directed pair, replacing any previous value.
func (r *RedisSegmentCache) Put(ctx context.Context, origin, destination, geometry string) error {
	if r.client == nil {
		return errors.New("segment cache: redis client is nil")
	}
	if origin == "" || destination == "" {
		return errors.New("insert segment cache: origin and destination must be non-empty")
	}
	if geometry == "" {
		return errors.New("insert segment cache: empty geometry")
	}

	if err := r.client.Set(ctx, segmentRedisKey(origin, destination), geometry, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert segment cache %q -> %q: redis set: %w", origin, destination, err)
	}

	return nil
}
