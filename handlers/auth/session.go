package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/utils/middleware"
	"github.com/rjoshi/todo-manager/utils/response"
)

// Logout destroys the current session by revoking its ID and clearing
// the session cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// Set by the auth middleware
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	jti, ok := middleware.SessionJTI(c)
	if !ok {
		return response.BadRequest(c, "No session ID found")
	}

	// Keep the revocation row only as long as the token itself lives
	expiresAt := time.Now().Add(h.sessions.TTL())
	if token := c.Cookies(middleware.SessionCookieName); token != "" {
		if exp, err := h.sessions.Expiry(token); err == nil {
			expiresAt = exp
		}
	}

	if err := h.revocations.Revoke(c.Context(), jti, user.ID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	// Drop revocation rows for sessions that have expired on their own
	_ = h.revocations.CleanupExpired(c.Context())

	// Clear the cookie
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}
