package routes

import (
	"log"

	"lendcore/internal/adapters/http/handlers"
	"lendcore/internal/adapters/http/middleware"
	"lendcore/internal/adapters/persistence/repositories"
	"lendcore/internal/config"
	"lendcore/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	loanRepo := repositories.NewLoanApplicationRepository(db)

	// Decision policy from configuration
	policy, err := services.NewDecisionPolicy(cfg.Underwriting)
	if err != nil {
		log.Fatalf("❌ Failed to resolve underwriting policy: %v", err)
	}

	// Services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, cfg.Underwriting)
	loanService := services.NewLoanService(loanRepo, userRepo, policy, cfg.Underwriting)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := apiV1.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Loan routes
	loans := apiV1.Group("/loans", middleware.AuthMiddleware(cfg))
	loans.Post("/", loanHandler.Submit)
	loans.Get("/review", middleware.ReviewerOrAdmin(), loanHandler.ListForReview)
	loans.Get("/:id/evaluation", loanHandler.Evaluate)

	// User routes (admin only)
	users := apiV1.Group("/users", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	users.Get("/", userHandler.List)
}
