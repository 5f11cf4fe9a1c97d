package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	alertFeedKeyPrefix     = "snop:alerts"
	alertFeedScanBatchSize = 100
)

// AlertFeedCache stores the daily alert run keyed by its run date. The feed
// for a past day never changes, so readers can always take the cache hit.
type AlertFeedCache interface {
	GetFeed(ctx context.Context, runDate time.Time) (*domain.AlertFeed, bool, error)
	SetFeed(ctx context.Context, runDate time.Time, feed *domain.AlertFeed) error
	InvalidateAll(ctx context.Context) error
}

type redisAlertFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAlertFeedCache struct{}

func NewAlertFeedCache(cfg config.CacheConfig) (AlertFeedCache, error) {
	if !cfg.Enabled {
		return &noopAlertFeedCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAlertFeedCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopAlertFeedCache() AlertFeedCache {
	return &noopAlertFeedCache{}
}

func (c *redisAlertFeedCache) GetFeed(ctx context.Context, runDate time.Time) (*domain.AlertFeed, bool, error) {
	payload, err := c.client.Get(ctx, buildAlertFeedKey(runDate)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var feed domain.AlertFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, false, fmt.Errorf("decode alert feed cache: %w", err)
	}

	return &feed, true, nil
}

func (c *redisAlertFeedCache) SetFeed(ctx context.Context, runDate time.Time, feed *domain.AlertFeed) error {
	payload, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("encode alert feed cache: %w", err)
	}

	if err := c.client.Set(ctx, buildAlertFeedKey(runDate), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAlertFeedCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, alertFeedKeyPrefix, alertFeedScanBatchSize)
}

func (n *noopAlertFeedCache) GetFeed(ctx context.Context, runDate time.Time) (*domain.AlertFeed, bool, error) {
	return nil, false, nil
}

func (n *noopAlertFeedCache) SetFeed(ctx context.Context, runDate time.Time, feed *domain.AlertFeed) error {
	return nil
}

func (n *noopAlertFeedCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildAlertFeedKey(runDate time.Time) string {
	return fmt.Sprintf("%s:%s", alertFeedKeyPrefix, runDate.Format("2006-01-02"))
}
