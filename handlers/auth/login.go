package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/services"
	"github.com/rjoshi/todo-manager/utils/response"
	"github.com/rjoshi/todo-manager/utils/validation"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = validation.SanitizeString(req.Email)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// Unknown email and wrong password share one message so the
	// endpoint does not confirm which addresses are registered.
	user, err := h.users.Verify(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to verify credentials")
	}

	res, err := h.establishSession(c, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to establish session")
	}

	return response.Success(c, res)
}
