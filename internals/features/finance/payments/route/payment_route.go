package route

import (
	"cashierku_backend/internals/configs"
	"cashierku_backend/internals/constants"
	"cashierku_backend/internals/features/finance/payments/controller"
	"cashierku_backend/internals/features/finance/payments/service"
	"cashierku_backend/internals/helpers/dbtime"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NewPaymentService builds the recorder from configuration. Online checkout
// links are only requested when a Midtrans server key is set.
func NewPaymentService(db *gorm.DB) *service.PaymentService {
	var gw service.CheckoutGateway
	if snap := service.NewSnapGateway(configs.MidtransServerKey, configs.MidtransUseProd); snap != nil {
		gw = snap
	}
	return service.NewPaymentService(db, dbtime.LoadLocation(configs.SchoolTimezone), configs.ReceiptPrefix, gw)
}

// PaymentRoutes: /api/payments plus the per-student payment and ledger views.
func PaymentRoutes(r fiber.Router, svc *service.PaymentService) {
	ctl := controller.NewPaymentController(svc)

	view := authMw.RequirePermission(constants.PermViewPayments)
	create := authMw.RequirePermission(constants.PermCreatePayments)

	g := r.Group("/payments")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Get)
	g.Post("/", create, ctl.Record)
	g.Patch("/:id/printed", create, ctl.MarkPrinted)

	r.Get("/students/:id/payments", view, ctl.StudentPayments)
	r.Get("/students/:id/ledger", view, ctl.StudentLedger)
}
