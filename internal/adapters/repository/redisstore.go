package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a Redis server.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore wraps an existing client. The caller owns the client lifecycle.
func NewRedisStore(client redis.Cmdable, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key used for gameID.
func (s *RedisStore) Key(gameID string) string {
	return s.prefix + gameID
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, gameID string) ([]byte, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, ErrInvalidKey
	}
	payload, err := s.client.Get(ctx, s.Key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrStoreFailure, gameID, err)
	}
	return payload, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, gameID string, payload []byte, ttl time.Duration) error {
	if strings.TrimSpace(gameID) == "" {
		return ErrInvalidKey
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.Key(gameID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrStoreFailure, gameID, err)
	}
	return nil
}

// Ping checks connectivity to the backing server.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrStoreFailure, err)
	}
	return nil
}
