package route

import (
	"cashierku_backend/internals/constants"
	"cashierku_backend/internals/features/academics/sections/controller"
	"cashierku_backend/internals/features/academics/sections/service"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SectionRoutes: /api/sections
func SectionRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSectionController(service.NewSectionService(db))

	g := r.Group("/sections")
	g.Get("/", authMw.RequirePermission(constants.PermViewStudents), ctl.List)
	g.Get("/:id", authMw.RequirePermission(constants.PermViewStudents), ctl.Get)

	manage := authMw.RequirePermission(constants.PermManageAcademics)
	g.Post("/", manage, ctl.Create)
	g.Patch("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
