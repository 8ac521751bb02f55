package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-simulator/logging"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *logging.Logger
}

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(
	ctx context.Context,
	addr, password string,
	db int,
	ttl time.Duration,
	logger *logging.Logger,
) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return newRedisCache(rdb, ttl, logger), nil
}

func newRedisCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "loan-simulator:",
		logger: logger.WithComponent(logging.ComponentCache),
	}
}

// Get reports a miss for absent keys. Transport failures also read as a
// miss so simulations keep working, but they are logged.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.logger.WarnContext(ctx, "Redis get failed",
			logging.FieldOperation, logging.OpRead,
			logging.FieldError, err)
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
