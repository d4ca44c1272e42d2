package route

import (
	"cashierku_backend/internals/constants"
	"cashierku_backend/internals/features/academics/grade_levels/controller"
	"cashierku_backend/internals/features/academics/grade_levels/service"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GradeLevelRoutes: /api/grade-levels
func GradeLevelRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeLevelController(service.NewGradeLevelService(db))

	g := r.Group("/grade-levels")
	g.Get("/", authMw.RequirePermission(constants.PermViewStudents), ctl.List)
	g.Get("/:id", authMw.RequirePermission(constants.PermViewStudents), ctl.Get)

	manage := authMw.RequirePermission(constants.PermManageAcademics)
	g.Post("/", manage, ctl.Create)
	g.Patch("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
