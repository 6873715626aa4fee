package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crucial707/stockroom/internal/models"
)

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	if c := New("", "", 0, time.Minute); c != nil {
		t.Fatalf("expected nil cache for empty addr, got %+v", c)
	}
}

func TestNilCache_IsNoop(t *testing.T) {
	var c *SummaryCache
	ctx := context.Background()

	c.Set(ctx, &models.Summary{Sections: 1})
	c.Invalidate(ctx)
	if _, ok := c.Get(ctx); ok {
		t.Error("nil cache should always miss")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestUnreachableRedis_FailsSafe(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewWithClient(client, time.Minute)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, &models.Summary{Sections: 2})
	if _, ok := c.Get(ctx); ok {
		t.Error("unreachable redis should behave like a miss")
	}
	c.Invalidate(ctx)
}
