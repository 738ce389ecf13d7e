package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const ingestProgressKey = "ingest:progress"

type RedisIngestProgressRepository struct {
	redis         *redis.Client
	expireSeconds int
}

func NewRedisIngestProgressRepository(redisClient *redis.Client, expireSeconds int) *RedisIngestProgressRepository {
	return &RedisIngestProgressRepository{redis: redisClient, expireSeconds: expireSeconds}
}

func (r *RedisIngestProgressRepository) Reset(ctx context.Context, total int) error {
	if err := r.redis.HSet(ctx, ingestProgressKey,
		"total", total,
		"attempted", 0,
		"current", "",
	).Err(); err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *RedisIngestProgressRepository) MarkAttempted(ctx context.Context, current string) error {
	if err := r.redis.HIncrBy(ctx, ingestProgressKey, "attempted", 1).Err(); err != nil {
		return err
	}
	if err := r.redis.HSet(ctx, ingestProgressKey, "current", current).Err(); err != nil {
		return err
	}
	return r.expire(ctx)
}

func (r *RedisIngestProgressRepository) Snapshot(ctx context.Context) (IngestProgress, error) {
	fields, err := r.redis.HGetAll(ctx, ingestProgressKey).Result()
	if err != nil {
		return IngestProgress{}, err
	}

	var progress IngestProgress
	progress.Total, _ = strconv.Atoi(fields["total"])
	progress.Attempted, _ = strconv.Atoi(fields["attempted"])
	progress.Current = fields["current"]
	return progress, nil
}

func (r *RedisIngestProgressRepository) Clear(ctx context.Context) error {
	return r.redis.Del(ctx, ingestProgressKey).Err()
}

func (r *RedisIngestProgressRepository) expire(ctx context.Context) error {
	if r.expireSeconds <= 0 {
		return nil
	}
	return r.redis.Expire(ctx, ingestProgressKey, time.Duration(r.expireSeconds)*time.Second).Err()
}
