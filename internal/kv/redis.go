package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. Records are stored without
// expiry; session lifetime is enforced by the session manager, not here.
type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates and pings a Redis-backed store.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb}, nil
}

// Get returns the value stored at key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set upserts the value at key.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, 0).Err()
}

// Delete removes the key; absent keys are a no-op.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// GetByPrefix walks matching keys with SCAN and fetches their values in
// batches. SCAN is used instead of KEYS so large stores don't block the
// server.
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	var cursor uint64

	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, escapeMatch(prefix)+"*", 100).Result()
		if err != nil {
			return nil, err
		}

		if len(keys) > 0 {
			vals, err := s.rdb.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				// A key may vanish between SCAN and MGET.
				if str, ok := v.(string); ok {
					out = append(out, json.RawMessage(str))
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

// Close shuts down the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// escapeMatch escapes glob metacharacters so a literal prefix can be
// used in a SCAN MATCH pattern.
func escapeMatch(prefix string) string {
	out := make([]byte, 0, len(prefix))
	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; c {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
