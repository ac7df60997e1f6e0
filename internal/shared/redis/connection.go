package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"alliance-tracker/internal/shared/config"

	"github.com/redis/go-redis/v9"
)

// ScanStatusKey caches the per-system last-scan view; it is deleted on every
// planet write so readers never see stale scan timestamps.
const ScanStatusKey = "hub:scan_status"

type Client struct {
	*redis.Client
}

// Connect returns nil without error when Redis is disabled; callers treat a
// nil client as "no cache".
func Connect(cfg config.RedisConfig) (*Client, error) {
	logger := slog.With("component", "redis", "operation", "connect")

	if !cfg.Enabled {
		logger.Info("Redis disabled, hub views will read straight from the database")
		return nil, nil
	}

	var rdb *redis.Client

	if cfg.URL != "" {
		logger.Debug("Connecting to Redis using URL")
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			logger.Error("Failed to parse Redis URL", "error", err)
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		logger.Debug("Connecting to Redis using host/port",
			"host", cfg.Host,
			"port", cfg.Port)

		rdb = redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping Redis", "error", err)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Redis connection established")
	return &Client{rdb}, nil
}

// InvalidateScanStatus drops the cached scan-status view. Safe on a nil client.
func (c *Client) InvalidateScanStatus(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.Del(ctx, ScanStatusKey).Err(); err != nil {
		slog.Warn("Failed to invalidate scan status cache", "error", err)
	}
}
