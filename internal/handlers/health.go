package handlers

import (
	"fintrack/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and cache connectivity.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "ok",
		"db":     "ok",
		"cache":  "ok",
	}
	code := fiber.StatusOK

	sqlDB, err := repositories.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["db"] = "unreachable"
		status["status"] = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["cache"] = "unreachable"
			status["status"] = "degraded"
		}
	}

	return c.Status(code).JSON(status)
}
