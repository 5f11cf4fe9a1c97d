package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

// Cached planning views default to a short TTL: rebuilds are cheap and the
// underlying streams change through the day.
const (
	defaultCacheTTL = time.Minute
	connectTimeout  = 5 * time.Second
)

// newRedisClient dials redis from either a single URL or discrete host
// fields and verifies the connection before handing the client out. The
// returned TTL is what the caller should store entries with.
func newRedisClient(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(orDefault(cfg.RedisHost, "127.0.0.1"), orDefault(cfg.RedisPort, "6379")),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.DashboardTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return client, ttl, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// deleteKeysWithPrefix walks the keyspace with SCAN and deletes matches in
// batches, so invalidation never blocks the server the way KEYS would.
func deleteKeysWithPrefix(ctx context.Context, client *redis.Client, prefix string, batchSize int64) error {
	pattern := prefix + "*"
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, batchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}
