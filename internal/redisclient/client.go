package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing
type Client struct {
	cmdable redis.UniversalClient
}

// NewClient creates a new traced Redis client for single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// NewClusterClient creates a new traced Redis client for Redis cluster
func NewClusterClient(client *redis.ClusterClient) *Client {
	return &Client{cmdable: client}
}

// startSpan opens a redis span; the returned func records the command outcome and ends it
func startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs,
		attribute.String("redis.operation", operation),
		attribute.String("redis.client", "app-pessoas"),
	)
	ctx, span := otel.Tracer("redis").Start(ctx, "redis."+operation, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		duration := time.Since(start)
		span.SetAttributes(
			attribute.Int64("redis.duration_ms", duration.Milliseconds()),
			attribute.String("redis.duration", duration.String()),
		)
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("redis.error", err.Error()))
		} else {
			span.SetStatus(codes.Ok, "success")
		}
		span.End()
	}
}

// Get wraps Redis Get with tracing
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, end := startSpan(ctx, "get", attribute.String("redis.key", key))
	cmd := c.cmdable.Get(ctx, key)
	end(cmd.Err())
	return cmd
}

// Set wraps Redis Set with tracing
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	ctx, end := startSpan(ctx, "set",
		attribute.String("redis.key", key),
		attribute.String("redis.expiration", expiration.String()),
	)
	cmd := c.cmdable.Set(ctx, key, value, expiration)
	end(cmd.Err())
	return cmd
}

// Del wraps Redis Del with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	ctx, end := startSpan(ctx, "del",
		attribute.StringSlice("redis.keys", keys),
		attribute.Int("redis.key_count", len(keys)),
	)
	cmd := c.cmdable.Del(ctx, keys...)
	end(cmd.Err())
	return cmd
}

// Expire wraps Redis Expire with tracing
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	ctx, end := startSpan(ctx, "expire",
		attribute.String("redis.key", key),
		attribute.String("redis.expiration", expiration.String()),
	)
	cmd := c.cmdable.Expire(ctx, key, expiration)
	end(cmd.Err())
	return cmd
}

// RPush wraps Redis RPush with tracing
func (c *Client) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	ctx, end := startSpan(ctx, "rpush",
		attribute.String("redis.key", key),
		attribute.Int("redis.value_count", len(values)),
	)
	cmd := c.cmdable.RPush(ctx, key, values...)
	end(cmd.Err())
	return cmd
}

// LTrim wraps Redis LTrim with tracing
func (c *Client) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	ctx, end := startSpan(ctx, "ltrim", attribute.String("redis.key", key))
	cmd := c.cmdable.LTrim(ctx, key, start, stop)
	end(cmd.Err())
	return cmd
}

// LRange wraps Redis LRange with tracing
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	ctx, end := startSpan(ctx, "lrange", attribute.String("redis.key", key))
	cmd := c.cmdable.LRange(ctx, key, start, stop)
	end(cmd.Err())
	return cmd
}

// Ping wraps Redis Ping with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, end := startSpan(ctx, "ping")
	cmd := c.cmdable.Ping(ctx)
	end(cmd.Err())
	return cmd
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	return c.cmdable.Close()
}
