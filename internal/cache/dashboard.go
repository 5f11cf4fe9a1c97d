package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "snop:dashboard"
	scanBatchSize      = 100
)

type DashboardCache interface {
	GetDashboard(ctx context.Context, filter *domain.DashboardFilter) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, filter *domain.DashboardFilter, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, filter *domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, filter *domain.DashboardFilter, dashboard *domain.Dashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, filter *domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, filter *domain.DashboardFilter, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter *domain.DashboardFilter) string {
	if filter == nil {
		return dashboardKeyPrefix + ":default"
	}

	var parts []string
	if !filter.Window.Start.IsZero() {
		parts = append(parts, "start="+filter.Window.Start.Format("2006-01-02"))
	}
	if !filter.Window.End.IsZero() {
		parts = append(parts, "end="+filter.Window.End.Format("2006-01-02"))
	}
	if len(filter.ProductCodes) > 0 {
		parts = append(parts, "products="+strings.Join(filter.ProductCodes, ","))
	}
	if len(filter.CustomerIDs) > 0 {
		parts = append(parts, "customers="+strings.Join(filter.CustomerIDs, ","))
	}

	if len(parts) == 0 {
		return dashboardKeyPrefix + ":default"
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(hash[:]))
}
