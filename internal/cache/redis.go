package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect initializes a Redis client from URL or host:port input and checks
// that the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// WindowCounter counts hits per key inside fixed time windows
type WindowCounter interface {
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error)
}

// RedisWindowCounter implements WindowCounter with INCR + EXPIRE so every
// replica sees the same counts
type RedisWindowCounter struct {
	client *redis.Client
	prefix string
}

// NewRedisWindowCounter creates a counter whose keys start with prefix
func NewRedisWindowCounter(client *redis.Client, prefix string) *RedisWindowCounter {
	return &RedisWindowCounter{client: client, prefix: prefix}
}

// Increment adds one hit for key in the window containing now and returns the
// running count for that window
func (c *RedisWindowCounter) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	redisKey := windowKey(c.prefix, key, window, now)

	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.Expire(ctx, redisKey, window+time.Second)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", redisKey, err)
	}
	return incr.Val(), nil
}

// windowKey names the bucket for now, e.g. "ratelimit:10.0.0.1:28434512"
func windowKey(prefix, key string, window time.Duration, now time.Time) string {
	size := int64(window / time.Second)
	if size <= 0 {
		size = 1
	}
	return fmt.Sprintf("%s:%s:%d", prefix, key, now.Unix()/size)
}
