package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/home/notifications/controller"
)

func NotificationAdminRoutes(admin fiber.Router, db *gorm.DB, sender controller.Sender) {
	ctrl := controller.NewNotificationController(db, sender)

	notif := admin.Group("/notifications")
	notif.Post("/", ctrl.CreateNotification)
	notif.Get("/", ctrl.GetAllNotifications)
	notif.Delete("/:id", ctrl.DeleteNotification)
}

func NotificationUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationUserController(db)

	notif := user.Group("/notifications")
	notif.Get("/", ctrl.GetMyNotifications)
	notif.Patch("/:id/read", ctrl.MarkAsRead)
}
