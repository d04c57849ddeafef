package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/academics/programs/controller"
)

func ProgramPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewProgramController(db)
	g := r.Group("/programs")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}

func ProgramAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewProgramController(db)
	g := admin.Group("/programs")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
