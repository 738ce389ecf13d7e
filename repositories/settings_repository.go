package repositories

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisSettingsRepository struct {
	redis *redis.Client
}

func NewRedisSettingsRepository(redisClient *redis.Client) *RedisSettingsRepository {
	return &RedisSettingsRepository{redis: redisClient}
}

func (r *RedisSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *RedisSettingsRepository) Set(ctx context.Context, key string, value string) error {
	return r.redis.Set(ctx, key, value, 0).Err()
}
