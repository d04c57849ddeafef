package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "feeportal_backend/internals/features/users/auth/controller"
	rateLimiter "feeportal_backend/internals/middlewares"
	authMiddleware "feeportal_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. Login and register are rate limited per IP.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")

	// public
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	baseAuth.Post("/logout", authController.Logout)

	// protected
	protected := baseAuth.Group("", authMiddleware.AuthMiddleware(db))
	protected.Post("/change-password", authController.ChangePassword)
	protected.Get("/me", authController.Me)
}
