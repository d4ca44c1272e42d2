package route

import (
	"cashierku_backend/internals/constants"
	"cashierku_backend/internals/features/academics/students/controller"
	"cashierku_backend/internals/features/academics/students/service"
	feeService "cashierku_backend/internals/features/finance/fee_structures/service"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentRoutes: /api/students. The payments feature adds /:id/payments and /:id/ledger.
func StudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(service.NewStudentService(db), feeService.NewFeeStructureService(db))

	view := authMw.RequirePermission(constants.PermViewStudents)
	manage := authMw.RequirePermission(constants.PermManageStudents)

	g := r.Group("/students")
	g.Get("/", view, ctl.Search)
	g.Get("/:id", view, ctl.Get)
	g.Get("/:id/balance", view, ctl.Balance)
	g.Get("/:id/fees", view, authMw.RequirePermission(constants.PermViewFees), ctl.Fees)
	g.Post("/", manage, ctl.Create)
	g.Patch("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
