// feed.go provides a Redis-backed cache for serialized public API
// responses. Feed pages and post detail payloads are cached so repeated
// anonymous reads skip the database entirely; any post mutation clears
// the whole namespace since pagination windows shift.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Redis key prefix for cached feed responses.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a cached response stays valid.
	DefaultFeedTTL = 1 * time.Minute
)

// FeedCache manages cached JSON responses for the public read path.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Redis client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns (nil, false) on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body for a key with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, body []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, body, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Called on post create/update/delete. An insertion shifts every
// subsequent pagination window, so per-key invalidation is pointless.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}

// PageKey returns the cache key for a feed page window.
func PageKey(page, limit int) string {
	return fmt.Sprintf("page:%d:%d", page, limit)
}

// PostKey returns the cache key for a post detail response.
func PostKey(slug string) string {
	return "post:" + slug
}
