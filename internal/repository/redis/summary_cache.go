package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps the bounded coach summary for a short TTL so a burst
// of home-screen and chat requests shares one aggregation pass.
type SummaryCache struct {
	client *redis.Client
}

var _ coaching.SummaryCache = (*SummaryCache)(nil)

func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

func summaryKey(userID uint) string {
	return fmt.Sprintf("coach:summary:%d", userID)
}

func (c *SummaryCache) Get(ctx context.Context, userID uint) (*domain.UserCoachSummary, error) {
	val, err := c.client.Get(ctx, summaryKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get summary from Redis: %w", err)
	}

	var summary domain.UserCoachSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached summary: %w", err)
	}

	return &summary, nil
}

func (c *SummaryCache) Set(ctx context.Context, summary domain.UserCoachSummary, ttl time.Duration) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(summary.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary in Redis: %w", err)
	}

	return nil
}
