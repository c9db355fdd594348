package middleware

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/NomadCrew/nomad-crew-newsletter/errors"
	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SubscribeRateLimiter limits sign-up attempts per client IP using a Redis
// counter whose expiry is pushed back on every attempt. Redis failures let
// the request through.
func SubscribeRateLimiter(redisClient redis.Cmdable, requestsPerWindow int, window time.Duration) gin.HandlerFunc {
	log := logger.GetLogger()

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:subscribe:%s", c.ClientIP())

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warnw("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}

		count := incr.Val()
		limit := strconv.Itoa(requestsPerWindow)

		if count > int64(requestsPerWindow) {
			ttl, err := redisClient.TTL(ctx, key).Result()
			if err != nil || ttl <= 0 {
				ttl = window
			}

			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later."))
			c.Abort()
			return
		}

		remaining := requestsPerWindow - int(count)
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}
