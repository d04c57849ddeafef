package details

import (
	UserRoutes "feeportal_backend/internals/features/users/user/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	UserRoutes.UserAdminRoutes(r, db)
}
