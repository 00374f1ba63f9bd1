package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis, using Redis expiry for TTLs.
// Transient network failures are retried under RedisOptions.Retry.
type RedisCache struct {
	client *redis.Client
	retry  Backoff
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	// Addr is host:port, or a redis:// URL.
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	// Retry governs Get, Set and Delete. Zero fields take DefaultBackoff.
	Retry Backoff
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	ro := &redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB, DialTimeout: opts.DialTimeout}
	if parsed, err := redis.ParseURL(opts.Addr); err == nil {
		ro = parsed
		if opts.DialTimeout > 0 {
			ro.DialTimeout = opts.DialTimeout
		}
	}

	client := redis.NewClient(ro)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %v", ErrNetwork, ro.Addr, err)
	}
	return &RedisCache{client: client, retry: opts.Retry.withDefaults()}, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry.Do(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			return classify(err)
		}
		data = b
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// DeletePrefix removes every key starting with prefix, scanning in batches,
// and returns how many were deleted.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	const batch = 100

	deleted := 0
	flush := func(keys []string) error {
		if len(keys) == 0 {
			return nil
		}
		return c.retry.Do(ctx, func() error {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return classify(err)
			}
			deleted += int(n)
			return nil
		})
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, prefix+"*", batch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == batch {
			if err := flush(keys); err != nil {
				return deleted, err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, classify(err)
	}
	return deleted, flush(keys)
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks connection-level failures as retryable. redis.Nil and
// server replies pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		return err
	}
	return Transient(fmt.Errorf("%w: %v", ErrNetwork, err))
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
