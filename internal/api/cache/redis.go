package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

var _ Store = (*RedisStore)(nil)

// RedisStore is the externalized Store for multi-process deployments.
// Values are stored as serialized JSON; Get returns the raw bytes and the
// caller decodes them into its typed result.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Connect parses redisURL, creates a client, and verifies connectivity.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(key string) (any, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("redis get failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(key string, value any, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	b, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to marshal cache value", slog.String("key", key), slog.Any("error", err))
		return
	}
	if ttl < 0 {
		ttl = 0 // redis treats 0 as "no expiry", matching NoExpiration
	}
	if err := s.client.Set(ctx, key, b, ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *RedisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.FlushDB(ctx).Err(); err != nil {
		s.logger.Warn("redis flush failed", slog.Any("error", err))
	}
}
