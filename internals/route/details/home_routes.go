package details

import (
	NotificationController "feeportal_backend/internals/features/home/notifications/controller"
	NotificationRoutes "feeportal_backend/internals/features/home/notifications/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func HomeUserRoutes(r fiber.Router, db *gorm.DB) {
	NotificationRoutes.NotificationUserRoutes(r, db)
}

func HomeAdminRoutes(r fiber.Router, db *gorm.DB, sender NotificationController.Sender) {
	NotificationRoutes.NotificationAdminRoutes(r, db, sender)
}
