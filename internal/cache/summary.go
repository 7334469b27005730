// Package cache keeps a short-lived Redis copy of the cross-queue
// summary. Every committed change invalidates it; all cache failures
// are soft and fall through to the store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"callqueue/internal/models"
)

const summaryKey = "queues:summary"

// Summary caches the summary payload. A nil *Summary or a nil client
// disables caching entirely.
type Summary struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSummary wraps a Redis client. client may be nil.
func NewSummary(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Summary {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Summary{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached summary and whether it was present.
func (c *Summary) Get(ctx context.Context) ([]models.QueueCount, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	cached, err := c.client.Get(ctx, summaryKey).Result()
	if err != nil || cached == "" {
		if err != nil && err != redis.Nil {
			c.logger.Debug().Err(err).Msg("summary cache read failed")
		}
		return nil, false
	}
	var rows []models.QueueCount
	if err := json.Unmarshal([]byte(cached), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// Set stores the summary for the configured TTL.
func (c *Summary) Set(ctx context.Context, rows []models.QueueCount) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey, string(data), c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("summary cache write failed")
	}
}

// Invalidate drops the cached summary.
func (c *Summary) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("summary cache invalidate failed")
	}
}
