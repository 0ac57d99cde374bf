package handlers

import (
	"time"

	"rentdesk/config"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// HealthHandler exposes the liveness probe used by deploy checks.
func HealthHandler(router fiber.Router, cfg config.Config) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "rentdesk_api",
			"version": cfg.GeneralVersion,
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
		})
	})
}
