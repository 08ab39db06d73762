package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens when the Redis counter backend is
// unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through when the counter backend is down.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503 when the counter backend is down.
	FailClosed
)

// limiterKey builds the Redis key for one resource/caller pair.
func limiterKey(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// CheckRateLimit reports whether the caller identified by id may perform
// another operation on resource within the window. Limiting is skipped
// entirely when APP_ENV is "test", "development" or "stress" so local and
// load-test workflows never throttle.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	switch env {
	case "test", "development", "stress":
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	// Fixed-window counter: INCR, then arm the expiry on first touch.
	count, err := rdb.Incr(ctx, limiterKey(resource, id)).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		rdb.Expire(ctx, limiterKey(resource, id), window)
	}
	return count <= int64(limit), nil
}

// RateLimit enforces limit requests per window for the named resource,
// failing open when Redis is unavailable. The caller is keyed by
// authenticated user id when present, remote IP otherwise.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := fmt.Sprintf("ip:%s", c.IP())
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(context.Background(), rdb, resource, id, limit, window)
		switch {
		case err != nil && policy == FailClosed:
			Logger.Warn("rate limit backend unavailable, failing closed",
				"resource", resource, "path", c.Path(), "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"error":   "rate limit unavailable",
			})
		case err != nil:
			return c.Next()
		case !allowed:
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
