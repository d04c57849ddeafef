package details

import (
	ProgramRoutes "feeportal_backend/internals/features/academics/programs/route"
	UniversityRoutes "feeportal_backend/internals/features/academics/universities/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AcademicPublicRoutes(r fiber.Router, db *gorm.DB) {
	UniversityRoutes.UniversityPublicRoutes(r, db)
	ProgramRoutes.ProgramPublicRoutes(r, db)
}

func AcademicAdminRoutes(r fiber.Router, db *gorm.DB) {
	UniversityRoutes.UniversityAdminRoutes(r, db)
	ProgramRoutes.ProgramAdminRoutes(r, db)
}
