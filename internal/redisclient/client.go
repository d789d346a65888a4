package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const idempotencyPrefix = "idempotency:"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping reports whether Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Claim stores value under key with SETNX. When the key is already held it
// returns the held value and false. A zero ttl never expires.
func (c *Client) Claim(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	k := idempotencyPrefix + key
	// the held key can expire between SETNX and GET, so try once more
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := c.rdb.SetNX(ctx, k, value, ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim failed: %w", err)
		}
		if ok {
			return "", true, nil
		}

		held, err := c.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency lookup failed: %w", err)
		}
		return held, false, nil
	}
	return "", false, fmt.Errorf("idempotency claim failed: key %s kept expiring", key)
}

// Set overwrites the value held under key
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, idempotencyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency store failed: %w", err)
	}
	return nil
}

// Release frees key
func (c *Client) Release(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release failed: %w", err)
	}
	return nil
}
