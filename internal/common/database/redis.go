// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"promptprofit-audit/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// releaseScript decrements a counter only while it still exists, so a
// release after the window expired cannot leave a negative count behind.
var releaseScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

// RedisClient backs the submission throttle and the readiness probe.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis returns an unconnected client; the first command dials.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis address is not configured")
	}

	return NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})), nil
}

func NewRedisFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// IncrWithin increments key and starts its expiry window on the first hit.
// It returns the count within the current window.
func (c *RedisClient) IncrWithin(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if count == 1 {
		if err := c.Client.PExpire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis pexpire %s: %w", key, err)
		}
	}
	return count, nil
}

// DecrIfExists undoes one IncrWithin hit. The key's expiry is kept.
func (c *RedisClient) DecrIfExists(ctx context.Context, key string) (int64, error) {
	count, err := releaseScript.Run(ctx, c.Client, []string{key}).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis decr %s: %w", key, err)
	}
	return count, nil
}
