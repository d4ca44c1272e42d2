package route

import (
	"cashierku_backend/internals/constants"
	"cashierku_backend/internals/features/finance/fee_structures/controller"
	"cashierku_backend/internals/features/finance/fee_structures/service"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FeeStructureRoutes: /api/fees
func FeeStructureRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewFeeStructureController(service.NewFeeStructureService(db))

	view := authMw.RequirePermission(constants.PermViewFees)
	manage := authMw.RequirePermission(constants.PermManageFees)

	g := r.Group("/fees")
	g.Get("/", view, ctl.List)
	g.Get("/catalog", view, ctl.Catalog)
	g.Get("/:id", view, ctl.Get)
	g.Post("/", manage, ctl.Create)
	g.Patch("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
