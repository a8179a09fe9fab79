package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

const (
	// occupancyKeyPrefix is the prefix for hierarchy occupancy summaries
	occupancyKeyPrefix = "occupancy:"

	// DefaultOccupancyTTL bounds how long a summary survives without an invalidation.
	DefaultOccupancyTTL = 10 * time.Minute
)

// RedisOccupancyCache stores hierarchy summaries in Redis.
// Keys carry the business date, so summaries computed yesterday are never served today.
type RedisOccupancyCache struct {
	client *redis.Client
	ttl    time.Duration
	clock  biztime.Clock
	logger logger.Interface
}

// NewRedisOccupancyCache creates a new RedisOccupancyCache instance
func NewRedisOccupancyCache(client *redis.Client, ttl time.Duration, clock biztime.Clock, logger logger.Interface) *RedisOccupancyCache {
	if ttl <= 0 {
		ttl = DefaultOccupancyTTL
	}
	return &RedisOccupancyCache{
		client: client,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// buildKey builds the Redis key for a unit summary
// Format: occupancy:{yyyy-mm-dd}:{unit_id}
func (c *RedisOccupancyCache) buildKey(unitID uint) string {
	return fmt.Sprintf("%s%s:%d", occupancyKeyPrefix, biztime.FormatDate(c.clock.Today()), unitID)
}

// Get returns the cached summary of a unit, nil on a miss.
func (c *RedisOccupancyCache) Get(ctx context.Context, unitID uint) (*occupancy.HierarchySummary, error) {
	data, err := c.client.Get(ctx, c.buildKey(unitID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get occupancy summary: %w", err)
	}

	var summary occupancy.HierarchySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warnw("dropping undecodable occupancy summary", "unit_id", unitID, "error", err)
		return nil, nil
	}
	return &summary, nil
}

// Set stores a summary under its unit ID.
func (c *RedisOccupancyCache) Set(ctx context.Context, summary *occupancy.HierarchySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal occupancy summary: %w", err)
	}
	if err := c.client.Set(ctx, c.buildKey(summary.UnitID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set occupancy summary: %w", err)
	}
	return nil
}

// Invalidate drops the summaries of the given units.
func (c *RedisOccupancyCache) Invalidate(ctx context.Context, unitIDs ...uint) error {
	if len(unitIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(unitIDs))
	for _, id := range unitIDs {
		keys = append(keys, c.buildKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate occupancy summaries: %w", err)
	}
	return nil
}

// NopOccupancyCache never stores anything. Used when Redis is disabled.
type NopOccupancyCache struct{}

func (NopOccupancyCache) Get(context.Context, uint) (*occupancy.HierarchySummary, error) {
	return nil, nil
}

func (NopOccupancyCache) Set(context.Context, *occupancy.HierarchySummary) error { return nil }

func (NopOccupancyCache) Invalidate(context.Context, ...uint) error { return nil }
