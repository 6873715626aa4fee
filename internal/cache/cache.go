package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crucial707/stockroom/internal/models"
)

const summaryKey = "stockroom:summary"

// SummaryCache keeps the dashboard summary in Redis. It fails safe: a nil
// cache or an unreachable Redis behaves like a permanent miss.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a cache backed by Redis at addr, or nil when addr is empty.
func New(addr, password string, db int, ttl time.Duration) *SummaryCache {
	if addr == "" {
		return nil
	}
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary, or false on miss or any redis error.
func (c *SummaryCache) Get(ctx context.Context) (*models.Summary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("summary cache get failed", "error", err)
		}
		return nil, false
	}
	var s models.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// Set stores s with the configured TTL, ignoring redis errors.
func (c *SummaryCache) Set(ctx context.Context, s *models.Summary) {
	if c == nil || c.client == nil || s == nil {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("summary cache set failed", "error", err)
	}
}

// Invalidate drops the cached summary, ignoring redis errors.
func (c *SummaryCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		slog.Warn("summary cache invalidate failed", "error", err)
	}
}

// Close releases the underlying connection pool.
func (c *SummaryCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
