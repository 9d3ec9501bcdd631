package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/utils/middleware"
)

// HandleHome sends authenticated visitors to their todo list and
// everyone else to the login entry point. Expects the optional auth
// middleware to have run first.
func HandleHome(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return c.Redirect("/api/v1/todos", fiber.StatusFound)
	}
	return c.Redirect("/api/v1/auth/login", fiber.StatusFound)
}
