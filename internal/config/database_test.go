package config

import (
	"context"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	cfg := &Config{RedisURI: "cache:6380", RedisPassword: "pw", RedisDB: 3}

	opts := redisOptions(cfg)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Equal(t, 10, opts.PoolSize)
	assert.Equal(t, 5, opts.MinIdleConns)
}

func TestInitRedis_Unreachable(t *testing.T) {
	cfg := &Config{RedisURI: "127.0.0.1:1"}

	client, err := InitRedis(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestInitRedis_Connects(t *testing.T) {
	cfg := &Config{RedisURI: testutil.RedisAddr(t)}

	client, err := InitRedis(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}
