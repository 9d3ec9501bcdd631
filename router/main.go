package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/config"
	"github.com/rjoshi/todo-manager/database"
	"github.com/rjoshi/todo-manager/handlers"
	auth_handlers "github.com/rjoshi/todo-manager/handlers/auth"
	todo_handlers "github.com/rjoshi/todo-manager/handlers/todo"
	"github.com/rjoshi/todo-manager/utils/auth"
	"github.com/rjoshi/todo-manager/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get session signing secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "todo-manager-api"
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize session manager with config
	sessionConfig := auth.SessionConfig{
		Secret: jwtSecret,
		TTL:    time.Duration(getEnv.SESSION_TTL_HOURS) * time.Hour,
		Issuer: jwtIssuer,
	}
	sessionManager := auth.NewSessionManager(sessionConfig)

	db := store.GetDB()

	// Initialize auth middleware with DB for revocation checking
	authMiddleware := middleware.NewAuthMiddleware(sessionManager, db)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, sessionManager)
	todoHandler := todo_handlers.NewTodoHandler(db)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// Landing route: redirect by session state
	app.Get("/", authMiddleware.Optional(), handlers.HandleHome)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)

	// Todo routes (all protected - every todo operation needs a session)
	todos := api.Group("/todos", authMiddleware.Required())
	todos.Get("/", todoHandler.List)                  // Protected: List current user's items
	todos.Post("/", todoHandler.Create)               // Protected: Add an item
	todos.Post("/:id/complete", todoHandler.Complete) // Protected: Mark item done
	todos.Post("/:id/reopen", todoHandler.Reopen)     // Protected: Mark item not done

	// Legacy completion endpoint at the app root (body form, cross-origin clients)
	app.Post("/completed", authMiddleware.Required(), todoHandler.CompleteByBody)
}
