package cache

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore_Responses(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	got, err := store.Get(ctx, "po-create-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	body := []byte(`{"success":true}`)
	require.NoError(t, store.Save(ctx, "po-create-1", &shared.StoredResponse{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Body:        body,
	}, time.Minute))
	body[0] = 'X'

	got, err = store.Get(ctx, "po-create-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusCreated, got.StatusCode)
	assert.Equal(t, `{"success":true}`, string(got.Body), "stored body is a copy")

	clock = clock.Add(time.Minute)
	got, err = store.Get(ctx, "po-create-1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired at ttl")

	store.sweep()
	assert.Zero(t, store.Size())
}

func TestInMemoryIdempotencyStore_Lock(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	release, err := store.Lock(ctx, "pay-bill-7", 30*time.Second)
	require.NoError(t, err)

	_, err = store.Lock(ctx, "pay-bill-7", 30*time.Second)
	assert.ErrorIs(t, err, shared.ErrIdempotencyKeyInUse)

	other, err := store.Lock(ctx, "pay-bill-8", 30*time.Second)
	require.NoError(t, err)
	other()

	release()
	release()
	again, err := store.Lock(ctx, "pay-bill-7", 30*time.Second)
	require.NoError(t, err)

	t.Run("expired claim can be taken over", func(t *testing.T) {
		clock = clock.Add(31 * time.Second)
		takeover, err := store.Lock(ctx, "pay-bill-7", 30*time.Second)
		require.NoError(t, err)

		again()
		_, err = store.Lock(ctx, "pay-bill-7", 30*time.Second)
		assert.ErrorIs(t, err, shared.ErrIdempotencyKeyInUse, "stale release must not drop the new claim")
		takeover()
	})
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(0)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("memory without a redis host", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{}).CreateStore(ctx)
		require.NoError(t, err)
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		_ = store.Close()
	})

	unreachable := func(f *IdempotencyStoreFactory) {
		f.connect = func(context.Context, config.RedisConfig) (shared.IdempotencyStore, error) {
			return nil, errors.New("dial tcp: connection refused")
		}
	}
	cfg := config.RedisConfig{Host: "redis", Port: 6379}

	t.Run("falls back when redis is down", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(cfg, WithLogger(zap.NewNop()), unreachable).CreateStore(ctx)
		require.NoError(t, err)
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		_ = store.Close()
	})

	t.Run("fails when fallback is disabled", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(cfg, WithInMemoryFallback(false), unreachable).CreateStore(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
