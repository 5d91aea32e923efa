// internal/server/throttle.go
package server

import (
	"context"
	"strings"
	"time"

	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/metrics"
)

// Throttle decides whether another submission for a recipient may run.
// Release hands back a slot taken by Allow when the submission failed.
type Throttle interface {
	Allow(ctx context.Context, recipient string) bool
	Release(ctx context.Context, recipient string)
}

// Counter is satisfied by database.RedisClient.
type Counter interface {
	IncrWithin(ctx context.Context, key string, window time.Duration) (int64, error)
	DecrIfExists(ctx context.Context, key string) (int64, error)
}

const throttleKeyPrefix = "audit:submissions:"

// RedisThrottle allows limit submissions per recipient per window. Redis
// errors let the submission through.
type RedisThrottle struct {
	counter Counter
	limit   int64
	window  time.Duration
	logger  logger.Logger
}

func NewRedisThrottle(counter Counter, limit int, window time.Duration, log logger.Logger) *RedisThrottle {
	return &RedisThrottle{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		logger:  log.WithFields(map[string]interface{}{"component": "throttle"}),
	}
}

func throttleKey(recipient string) string {
	return strings.ToLower(strings.TrimSpace(recipient))
}

func (t *RedisThrottle) Allow(ctx context.Context, recipient string) bool {
	key := throttleKey(recipient)
	if key == "" || t.limit <= 0 {
		return true
	}

	count, err := t.counter.IncrWithin(ctx, throttleKeyPrefix+key, t.window)
	if err != nil {
		metrics.AuditThrottled.WithLabelValues("redis_error").Inc()
		t.logger.WithError(err).Warn("throttle unavailable, allowing submission", map[string]interface{}{
			"recipient": logger.MaskEmail(key),
		})
		return true
	}
	if count > t.limit {
		metrics.AuditThrottled.WithLabelValues("redis").Inc()
		t.logger.Info("submission throttled", map[string]interface{}{
			"recipient": logger.MaskEmail(key),
			"count":     count,
		})
		// refused attempts do not count toward the window
		t.release(ctx, key)
		return false
	}
	return true
}

// Release returns the slot a failed submission took.
func (t *RedisThrottle) Release(ctx context.Context, recipient string) {
	key := throttleKey(recipient)
	if key == "" || t.limit <= 0 {
		return
	}
	t.release(ctx, key)
}

func (t *RedisThrottle) release(ctx context.Context, key string) {
	if _, err := t.counter.DecrIfExists(ctx, throttleKeyPrefix+key); err != nil {
		t.logger.WithError(err).Warn("throttle slot not released", map[string]interface{}{
			"recipient": logger.MaskEmail(key),
		})
	}
}
