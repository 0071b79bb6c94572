// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

// IntegrationEnabled reports whether container backed tests should run
func IntegrationEnabled() bool {
	return os.Getenv("INTEGRATION_TESTS") == "1"
}

// RedisAddr returns the host:port of a Redis instance for the test.
// REDIS_ADDR wins when set; otherwise a redis:7-alpine container is started
// and terminated on cleanup. The test is skipped when neither is available.
func RedisAddr(t *testing.T) string {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if !IntegrationEnabled() {
		t.Skip("Skipping Redis integration tests: set REDIS_ADDR or INTEGRATION_TESTS=1")
	}

	ctx := context.Background()
	container, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")

	return strings.TrimPrefix(uri, "redis://")
}
