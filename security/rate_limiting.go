package security

import (
	"fmt"
	"strings"
	"time"

	"market-pos/logger"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimiter struct {
	redis    *redis.Client
	limit    int64
	window   time.Duration
	identify func(e *core.RequestEvent) string
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
		identify: func(e *core.RequestEvent) string {
			return e.RealIP()
		},
	}
}

// PublicRateLimit limits share-link traffic per client IP with a fixed Redis
// window. Redis errors let the request through.
func (r *RateLimiter) PublicRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if isSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
			return apis.NewForbiddenError("Access denied", nil)
		}

		ctx := e.Request.Context()
		log := logger.FromContext(ctx)
		key := fmt.Sprintf("ratelimit:public:%s", r.identify(e))

		// EXPIRE NX on every hit restores a missing TTL without moving the window.
		var (
			incr   *redis.IntCmd
			expire *redis.BoolCmd
		)
		_, _ = r.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			expire = pipe.ExpireNX(ctx, key, r.window)
			return nil
		})

		count, err := incr.Result()
		if err != nil {
			log.Warn("Rate limit check failed", zap.String("key", key), zap.Error(err))
			return e.Next()
		}
		if err := expire.Err(); err != nil {
			log.Warn("Rate limit window not set, dropping counter", zap.String("key", key), zap.Error(err))
			if err := r.redis.Del(ctx, key).Err(); err != nil {
				log.Error("Failed to drop rate limit counter", zap.String("key", key), zap.Error(err))
			}
		}
		if count > r.limit {
			return apis.NewTooManyRequestsError("Too many requests. Please try again later.", nil)
		}

		return e.Next()
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
