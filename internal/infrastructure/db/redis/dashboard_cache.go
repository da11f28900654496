package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ecomrating/store-rating/internal/core/ports"
)

// dashboardKey holds the JSON-encoded admin dashboard.
const dashboardKey = "dashboard:summary"

// DashboardCache keeps the last built dashboard summary for ttl.
type DashboardCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	lookups *prometheus.CounterVec
}

// NewDashboardCache wraps the given Redis client. lookups, when not nil,
// is incremented with a single "hit", "miss" or "error" label per Get.
func NewDashboardCache(client redis.Cmdable, ttl time.Duration, lookups *prometheus.CounterVec) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl, lookups: lookups}
}

func (c *DashboardCache) record(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}

// Get returns the cached summary. A missing key is a miss, not an error.
func (c *DashboardCache) Get(ctx context.Context) (*ports.DashboardSummary, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record("miss")
		return nil, false, nil
	}
	if err != nil {
		c.record("error")
		return nil, false, fmt.Errorf("dashboard cache get: %w", err)
	}

	var s ports.DashboardSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		c.record("error")
		return nil, false, fmt.Errorf("dashboard cache decode: %w", err)
	}
	c.record("hit")
	return &s, true, nil
}

// Set stores s, replacing any earlier summary.
func (c *DashboardCache) Set(ctx context.Context, s *ports.DashboardSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("dashboard cache encode: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("dashboard cache set: %w", err)
	}
	return nil
}
