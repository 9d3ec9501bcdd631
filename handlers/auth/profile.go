package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/utils/middleware"
	"github.com/rjoshi/todo-manager/utils/response"
)

// GetProfile retrieves the current user's record
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, newUserResponse(user))
}
