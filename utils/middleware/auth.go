package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/model"
	"github.com/rjoshi/todo-manager/utils/auth"
	"github.com/rjoshi/todo-manager/utils/response"
	"gorm.io/gorm"
)

// SessionCookieName is the cookie that carries the session token
const SessionCookieName = "todo_session"

// AuthMiddleware resolves the current user from a session token
type AuthMiddleware struct {
	sessions    *auth.SessionManager
	revocations *auth.RevocationService
	db          *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(sessions *auth.SessionManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:    sessions,
		revocations: auth.NewRevocationService(db),
		db:          db,
	}
}

// extractToken pulls the session token from the session cookie or, for
// API clients, from an Authorization: Bearer header.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// resolve validates the token and loads the bound user. Returns nil
// claims when the request carries no usable session.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*auth.SessionClaims, *model.User, error) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, nil, nil
	}

	claims, err := m.sessions.Validate(tokenString)
	if err != nil {
		return nil, nil, err
	}

	isRevoked, err := m.revocations.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if isRevoked {
		return nil, nil, auth.ErrInvalidToken
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, auth.ErrInvalidToken
		}
		return nil, nil, err
	}

	return claims, &user, nil
}

// Required is the guard for every todo-mutating route: without a valid
// session the handler is never reached and no store is touched.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return response.Unauthorized(c, "Missing session token")
		}

		claims, user, err := m.resolve(c)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Session has expired")
			}
			if err == auth.ErrInvalidToken || err == auth.ErrInvalidClaims {
				return response.Unauthorized(c, "Invalid session")
			}
			return response.InternalServerError(c, "Failed to check session")
		}

		// Store user info in request-scoped locals, never globals
		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user", user)
		c.Locals("session_jti", claims.ID)

		return c.Next()
	}
}

// Optional resolves the session when present but lets the request
// through either way. Used by the landing route to pick a redirect.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, err := m.resolve(c)
		if err != nil || claims == nil {
			return c.Next()
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user", user)
		c.Locals("session_jti", claims.ID)

		return c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// CurrentUser extracts the full user object from context
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// SessionJTI extracts the session ID from context
func SessionJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("session_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
