package routes

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/constants"
	paymentController "feeportal_backend/internals/features/finance/payments/controller"
	notificationController "feeportal_backend/internals/features/home/notifications/controller"
	"feeportal_backend/internals/middlewares"
	authMiddleware "feeportal_backend/internals/middlewares/auth"
	routeDetails "feeportal_backend/internals/route/details"
)

var startTime time.Time

// Deps carries the services built in main that routes hand to controllers.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Payments paymentController.PaymentUsecase
	Webhook  paymentController.SignatureVerifier
	Notifier notificationController.Sender
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()
	db := deps.DB

	BaseRoutes(app, deps)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public", middlewares.GlobalRateLimiter())

	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u",
		middlewares.GlobalRateLimiter(),
		authMiddleware.AuthMiddleware(db),
	)

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		middlewares.GlobalRateLimiter(),
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("admin routes"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Academic routes...")
	routeDetails.AcademicPublicRoutes(public, db)
	routeDetails.AcademicAdminRoutes(admin, db)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinancePublicRoutes(public, deps.Payments, deps.Webhook)
	routeDetails.FinanceUserRoutes(private, deps.Payments)
	routeDetails.FinanceAdminRoutes(admin, deps.Payments)

	log.Println("[INFO] Mounting Home routes...")
	routeDetails.HomeUserRoutes(private, db)
	routeDetails.HomeAdminRoutes(admin, db, deps.Notifier)
}
