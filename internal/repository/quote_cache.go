package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"freight-service/internal/models"
)

const compareKeyPattern = "freight:compare:*"

// QuoteCache caches provider comparison results in Redis. All methods are
// no-ops when Redis is unavailable, so quoting keeps working without it.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuoteCache creates a new quote cache. client may be nil.
func NewQuoteCache(client *redis.Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QuoteCache{client: client, ttl: ttl}
}

// GetCompare returns a cached comparison result, if any
func (c *QuoteCache) GetCompare(ctx context.Context, key string) (*models.CompareResult, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var result models.CompareResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetCompare stores a comparison result with the configured TTL
func (c *QuoteCache) SetCompare(ctx context.Context, key string, result *models.CompareResult) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Warning: failed to cache comparison: %v", err)
	}
}

// Invalidate drops every cached comparison. Called after rate or charge
// configuration changes so stale totals never get served.
func (c *QuoteCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, compareKeyPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Warning: quote cache scan failed: %v", err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("Warning: quote cache invalidation failed: %v", err)
		}
	}
}
