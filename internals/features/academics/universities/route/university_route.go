package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/academics/universities/controller"
)

// UniversityPublicRoutes mounts read-only listing, e.g. under /api/public.
func UniversityPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewUniversityController(db)
	g := r.Group("/universities")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}

// UniversityAdminRoutes mounts full CRUD under an admin-guarded router.
func UniversityAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewUniversityController(db)
	g := admin.Group("/universities")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
