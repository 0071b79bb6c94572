package config

import (
	"context"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisOptions builds the go-redis options for cfg
func redisOptions(cfg *Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisURI,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	}
}

// InitRedis connects to Redis and returns a traced client. The connection is
// verified with a ping; on failure the pool is closed and the error returned.
func InitRedis(ctx context.Context, cfg *Config) (*redisclient.Client, error) {
	client := redisclient.NewClient(redis.NewClient(redisOptions(cfg)))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", cfg.RedisURI),
			zap.Error(err))
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisURI, err)
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", cfg.RedisURI),
		zap.Int("db", cfg.RedisDB))
	return client, nil
}
