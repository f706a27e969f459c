package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisKVRepository struct {
	client *redis.Client
	prefix string
}

/*
Redis key layout:
{prefix}{storageKey} => raw stored string, e.g. crm:storage:pmToken
*/

// NewRedisKVRepository returns a Redis-backed implementation.
func NewRedisKVRepository(client *redis.Client, prefix string) KeyValueRepository {
	return &redisKVRepository{client: client, prefix: prefix}
}

func (r *redisKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisKVRepository) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// Delete issues one multi-key DEL, which Redis applies atomically.
func (r *redisKVRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.key(key)
	}
	return r.client.Del(ctx, prefixed...).Err()
}

func (r *redisKVRepository) key(key string) string {
	return r.prefix + key
}
