package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps deadline records in Redis. Useful when the client runs
// on shared lab machines: the countdown survives not only a process restart
// but a move to another workstation.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisStore wraps an existing Redis client as a Store.
func NewRedisStore(ctx context.Context, rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ctx: ctx}
}

func (r *RedisStore) Get(key string) (string, error) {
	v, err := r.rdb.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *RedisStore) Set(key, value string) error {
	return r.rdb.Set(r.ctx, key, value, 0).Err()
}

func (r *RedisStore) Remove(key string) error {
	return r.rdb.Del(r.ctx, key).Err()
}
