package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/database"
)

// HandleCheckHealth reports service and database status
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
