package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session record under a single key. The ttl passed to
// Save becomes the key TTL so a stale record expires server-side even if the
// device never comes back to clean it up.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore returns a store bound to key. prefix-style key layout is the
// caller's choice; one key per operator device is the expected shape.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

// Load fetches the record, mapping redis.Nil to ErrNotFound.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load: %w", err)
	}
	return data, nil
}

// Save overwrites the record. A non-positive ttl stores without expiry.
func (s *RedisStore) Save(ctx context.Context, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

// Delete removes the record; absent keys are fine.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
