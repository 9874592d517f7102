package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

)

// DefaultCacheTTL is used when a cache is created without a TTL.
const DefaultCacheTTL = time.Minute

// RedisCache keeps the ranker's order per participant in Redis. Only event
// IDs are stored; event rows are always read fresh.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a feed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func feedKey(participantID int64) string {
	return fmt.Sprintf("feed:participant:%d", participantID)
}

// Get returns the cached ranking and whether there was one.
func (c *RedisCache) Get(ctx context.Context, participantID int64) ([]int64, bool, error) {
	raw, err := c.client.Get(ctx, feedKey(participantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var order []int64
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, false, fmt.Errorf("decode cached ranking: %w", err)
	}
	return order, true, nil
}

// Set stores a ranking for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, participantID int64, order []int64) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	return c.client.Set(ctx, feedKey(participantID), raw, c.ttl).Err()
}

// Invalidate drops a participant's cached ranking.
func (c *RedisCache) Invalidate(ctx context.Context, participantID int64) error {
	return c.client.Del(ctx, feedKey(participantID)).Err()
}
