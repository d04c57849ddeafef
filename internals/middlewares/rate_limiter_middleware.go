package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "feeportal_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, key func(c *fiber.Ctx) string, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

func byIP(c *fiber.Ctx) string { return c.IP() }

// byUser keys on the authenticated user, falling back to IP before auth has run.
func byUser(c *fiber.Ctx) string {
	if id, ok := c.Locals(helper.LocUserID).(string); ok && id != "" {
		return "u:" + id
	}
	return "ip:" + c.IP()
}

// Global limiter for every endpoint.
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, byIP, "too many requests, please try again later")
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, byIP, "too many login attempts, try again in a moment")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, byIP, "too many registration attempts, wait a few minutes")
}

// PaymentRateLimiter caps payment initiations per user.
func PaymentRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, byUser, "too many payment attempts, please slow down")
}
