package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

// ReferenceCache stores reference lookups by key
type ReferenceCache interface {
	// Get reports ok=false on a miss
	Get(ctx context.Context, key string) (values []string, ok bool, err error)
	Set(ctx context.Context, key string, values []string, ttl time.Duration) error
}

// RedisReferenceCache keeps reference lookups in Redis as JSON arrays
type RedisReferenceCache struct {
	client *redisclient.Client
}

// NewRedisReferenceCache creates a cache on top of a traced Redis client
func NewRedisReferenceCache(client *redisclient.Client) *RedisReferenceCache {
	return &RedisReferenceCache{client: client}
}

func (c *RedisReferenceCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, false, err
	}
	return values, true, nil
}

func (c *RedisReferenceCache) Set(ctx context.Context, key string, values []string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}
