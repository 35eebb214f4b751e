package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// Cache keeps ranked discovery results in Redis for a short window so that
// dashboard-triggered discovery does not hammer the upstream catalogs.
// All cache failures degrade to a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(limit int) string {
	return fmt.Sprintf("discovery:trending:%d", limit)
}

func (c *Cache) Get(ctx context.Context, limit int) ([]models.ProductCandidate, bool) {
	raw, err := c.client.Get(ctx, cacheKey(limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var candidates []models.ProductCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		logger.Log.WithError(err).Warn("discarding corrupt discovery cache entry")
		c.client.Del(ctx, cacheKey(limit))
		return nil, false
	}
	return candidates, true
}

func (c *Cache) Set(ctx context.Context, limit int, candidates []models.ProductCandidate) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(limit), raw, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("failed to cache discovery results")
	}
}
