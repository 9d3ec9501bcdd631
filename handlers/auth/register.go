package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/model"
	"github.com/rjoshi/todo-manager/services"
	authutil "github.com/rjoshi/todo-manager/utils/auth"
	"github.com/rjoshi/todo-manager/utils/middleware"
	"github.com/rjoshi/todo-manager/utils/response"
	"github.com/rjoshi/todo-manager/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db          *gorm.DB
	users       *services.UserService
	sessions    *authutil.SessionManager
	revocations *authutil.RevocationService
	validator   *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, sessions *authutil.SessionManager) *AuthHandler {
	return &AuthHandler{
		db:          db,
		users:       services.NewUserService(db),
		sessions:    sessions,
		revocations: authutil.NewRevocationService(db),
		validator:   validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=40"`
}

// SessionResponse represents an established session
type SessionResponse struct {
	User         UserResponse `json:"user"`
	SessionToken string       `json:"session_token"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// establishSession issues a session token and binds it to the browser
// via an HTTP-only cookie. The token is also returned in the body for
// non-browser clients.
func (h *AuthHandler) establishSession(c *fiber.Ctx, user *model.User) (*SessionResponse, error) {
	token, jti, err := h.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	_ = jti

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessions.TTL()),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return &SessionResponse{
		User:         newUserResponse(user),
		SessionToken: token,
		ExpiresIn:    int(h.sessions.TTL().Seconds()),
	}, nil
}

// Register handles user registration and logs the new user in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.users.Register(c.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return response.Conflict(c, "User with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	// Auto-login after registration
	res, err := h.establishSession(c, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to establish session")
	}

	return response.Created(c, res)
}
