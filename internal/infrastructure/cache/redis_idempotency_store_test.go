//go:build integration

package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: port.Int()}
}

func TestRedisIdempotencyStore(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	store, err := NewIdempotencyStoreFactory(cfg, WithInMemoryFallback(false), WithLogger(zap.NewNop())).CreateStore(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.IsType(t, &RedisIdempotencyStore{}, store)

	got, err := store.Get(ctx, "so-create-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, "so-create-1", &shared.StoredResponse{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
	}, time.Minute))

	got, err = store.Get(ctx, "so-create-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusCreated, got.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(got.Body))

	release, err := store.Lock(ctx, "so-create-2", 5*time.Second)
	require.NoError(t, err)
	_, err = store.Lock(ctx, "so-create-2", 5*time.Second)
	assert.ErrorIs(t, err, shared.ErrIdempotencyKeyInUse)

	release()
	release()
	again, err := store.Lock(ctx, "so-create-2", 5*time.Second)
	require.NoError(t, err)
	again()
}
