package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/domain"
)

type StatsCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewStatsCache creates a Redis-backed cache for computed project statistics.
// The returned value satisfies report.StatsCache.
func NewStatsCache(client *redislib.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsCache{
		client: client,
		prefix: "stats:project:",
		ttl:    ttl,
	}
}

func (c *StatsCache) Get(ctx context.Context, projectID string) (*domain.ProjectStatistics, error) {
	result, err := c.client.Get(ctx, c.key(projectID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.NewNotFound("project statistics", projectID)
		}
		return nil, err
	}

	var stats domain.ProjectStatistics
	if err := json.Unmarshal([]byte(result), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, stats domain.ProjectStatistics) error {
	if stats.ProjectID == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(stats.ProjectID), payload, c.ttl).Err()
}

// Invalidate drops the cached statistics for a project after a write.
func (c *StatsCache) Invalidate(ctx context.Context, projectID string) error {
	return c.client.Del(ctx, c.key(projectID)).Err()
}

func (c *StatsCache) key(projectID string) string {
	return fmt.Sprintf("%s%s", c.prefix, projectID)
}
