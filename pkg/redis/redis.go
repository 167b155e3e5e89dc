package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikitchen/ikitchen-backend/config"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrNotCached is returned when no report is cached for the requested date.
var ErrNotCached = errors.New("no cached report for that date")

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// Available reports whether a Redis connection was established. Report
// caching is optional; everything works without it.
func Available() bool {
	return client != nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func reportKey(date string) string {
	return fmt.Sprintf("report:daily:%s", date)
}

// CacheReport stores a rendered report under its date (DD-MM-YYYY).
func CacheReport(ctx context.Context, date, rendered string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	if err := client.Set(ctx, reportKey(date), rendered, ttl).Err(); err != nil {
		logger.Error("Failed to cache report", err, map[string]interface{}{
			"date": date,
		})
		return err
	}
	logger.Debug("Report cached", map[string]interface{}{
		"date": date,
		"ttl":  ttl.String(),
	})
	return nil
}

// GetCachedReport fetches a previously rendered report by date.
func GetCachedReport(ctx context.Context, date string) (string, error) {
	if client == nil {
		return "", ErrNotCached
	}
	rendered, err := client.Get(ctx, reportKey(date)).Result()
	if err == redis.Nil {
		return "", ErrNotCached
	}
	if err != nil {
		logger.Error("Failed to read cached report", err, map[string]interface{}{
			"date": date,
		})
		return "", err
	}
	return rendered, nil
}
