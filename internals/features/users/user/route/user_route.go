package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "feeportal_backend/internals/features/users/user/controller"
)

// UserAdminRoutes mounts student management under an admin-guarded router.
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := userController.NewUserController(db)

	g := admin.Group("/users")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
	g.Put("/:id/assignment", ctl.Assign)
	g.Patch("/:id/active", ctl.SetActive)
}
