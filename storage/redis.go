package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV persists the document as a single redis string key. Useful when the
// planning document should survive the local filesystem, e.g. on shared or
// throwaway machines.
type RedisKV struct {
	client *redis.Client
	key    string
}

// NewRedisKV wraps an existing client. The caller keeps ownership of the
// client's lifecycle.
func NewRedisKV(client *redis.Client, key string) *RedisKV {
	if client == nil {
		panic("storage.NewRedisKV: client is nil")
	}
	if key == "" {
		panic("storage.NewRedisKV: key is empty")
	}
	return &RedisKV{client: client, key: key}
}

func (r *RedisKV) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, true, nil
}

func (r *RedisKV) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
