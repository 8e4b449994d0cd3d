package middleware

import (
	"time"

	"github.com/designdesk/backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger emits one structured event per request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("http_request", map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		})

		return err
	}
}

// SecurityLogger records denied requests so authorization failures stay
// observable without an audit subsystem.
func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
			fields := map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"status": status,
				"ip":     c.IP(),
			}
			if user := GetCurrentUser(c); user != nil {
				logger.WarnWithUser(user.ID.String(), "request_denied", fields)
			} else {
				logger.Warn("request_denied", fields)
			}
		}

		return err
	}
}
