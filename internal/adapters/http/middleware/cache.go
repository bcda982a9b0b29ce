package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NoCacheHeaders sets no-cache headers
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}

// PrivateCacheHeaders sets private cache headers (for user-specific data)
func PrivateCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("private", maxAge)
}

// PublicCacheHeaders sets shared cache headers (for uploaded media)
func PublicCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("public", maxAge)
}

// cacheHeaders only touches successful GET responses
func cacheHeaders(scope string, maxAge time.Duration) fiber.Handler {
	value := scope + ", max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set("Cache-Control", value)
		}

		return err
	}
}

// MediaHeaders keeps uploaded files passive: nothing they contain may run
// scripts or load resources, and browsers must not guess another type
func MediaHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
		c.Set("X-Content-Type-Options", "nosniff")

		return err
	}
}
