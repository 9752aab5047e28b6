// Package cache provides a redis-backed response cache for the HTTP layer.
// It only short-circuits byte-identical optimization requests: the cache key
// is a digest of the full request payload, so a changed constraint set is
// always a cache miss and re-solves as usual.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
)

// LineupCacheService caches optimized lineups keyed by request digest.
type LineupCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewLineupCacheService creates a lineup cache backed by the given client.
func NewLineupCacheService(client *redis.Client, logger *logrus.Logger) *LineupCacheService {
	return &LineupCacheService{client: client, logger: logger}
}

// SetLineup stores an optimized lineup under the request digest.
func (c *LineupCacheService) SetLineup(ctx context.Context, key string, lineup *optimizer.OptimizedLineup, expiration time.Duration) error {
	data, err := json.Marshal(lineup)
	if err != nil {
		return fmt.Errorf("failed to marshal lineup: %w", err)
	}

	fullKey := fmt.Sprintf("lineup:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set lineup in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
	}).Debug("Cached optimized lineup")
	return nil
}

// GetLineup retrieves an optimized lineup by request digest.
func (c *LineupCacheService) GetLineup(ctx context.Context, key string) (*optimizer.OptimizedLineup, error) {
	fullKey := fmt.Sprintf("lineup:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("lineup not found in cache")
		}
		return nil, fmt.Errorf("failed to get lineup from cache: %w", err)
	}

	var lineup optimizer.OptimizedLineup
	if err := json.Unmarshal([]byte(data), &lineup); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lineup: %w", err)
	}

	c.logger.WithField("cache_key", fullKey).Debug("Retrieved lineup from cache")
	return &lineup, nil
}

// Flush clears every cached lineup.
func (c *LineupCacheService) Flush(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "lineup:*").Result()
	if err != nil {
		return fmt.Errorf("failed to get lineup keys: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete lineup keys: %w", err)
		}
	}
	c.logger.WithField("deleted_keys", len(keys)).Info("Flushed lineup cache")
	return nil
}
