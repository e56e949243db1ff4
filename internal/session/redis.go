package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"spot-the-spy-bot/internal/config"
)

// RedisKV adapts a redis client to the KV interface.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV connects to redis and verifies the connection.
func NewRedisKV(ctx context.Context, cfg *config.RedisConfig) (*RedisKV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisKV{rdb: rdb}, nil
}

// Get returns the value at key, ErrKeyNotFound on a miss.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return v, err
}

// Set stores the value at key without expiry; sessions outlive restarts.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

// Del removes the key.
func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Exists reports whether the key is present.
func (r *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Close releases the underlying connection pool.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
