package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "supplychain:idempotency:"

// RedisIdempotencyStore shares idempotent responses between instances.
// Responses are JSON values with a TTL; claims are redislock locks.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	locker    *redislock.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewRedisIdempotencyStore wraps an existing client
func NewRedisIdempotencyStore(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		locker:    redislock.New(client),
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Get returns the stored response for key
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*shared.StoredResponse, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+"resp:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotent response: %w", err)
	}
	var resp shared.StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode idempotent response: %w", err)
	}
	return &resp, nil
}

// Save stores resp for key until ttl elapses
func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp *shared.StoredResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode idempotent response: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+"resp:"+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	return nil
}

// Lock obtains a redislock claim on key without retrying
func (s *RedisIdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := s.locker.Obtain(ctx, s.keyPrefix+"lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrIdempotencyKeyInUse
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain idempotency lock: %w", err)
	}
	return func() {
		// the request context may already be cancelled
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			s.logger.Warn("failed to release idempotency lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
