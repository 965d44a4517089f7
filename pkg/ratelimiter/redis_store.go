package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts with INCR and lets the key expiry close the window,
// so every replica pointed at the same Redis shares one limit.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, d time.Duration) (int, time.Time, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	count := int(incr.Val())
	left := ttl.Val()
	// A fresh key, or one left without expiry, opens a new window.
	if count == 1 || left < 0 {
		if err := s.client.PExpire(ctx, key, d).Err(); err != nil {
			return 0, time.Time{}, err
		}
		left = d
	}
	return count, time.Now().Add(left), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
