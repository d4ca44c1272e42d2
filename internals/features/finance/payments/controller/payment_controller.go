package controller

import (
	"strings"
	"time"

	"cashierku_backend/internals/features/finance/payments/dto"
	"cashierku_backend/internals/features/finance/payments/service"
	helper "cashierku_backend/internals/helpers"
	helperAuth "cashierku_backend/internals/helpers/auth"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentController struct {
	Svc *service.PaymentService
}

func NewPaymentController(svc *service.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a UUID")
	}
	return id, nil
}

func optionalDate(c *fiber.Ctx, name string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	t, err := dbtime.ParseDate(v, time.UTC)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return &t, nil
}

// POST /api/payments
func (ctl *PaymentController) Record(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	res, err := ctl.Svc.Record(c.UserContext(), service.Operator{ID: userID, Role: helperAuth.GetRole(c), Name: helperAuth.GetUserName(c)}, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Payment recorded", dto.RecordPaymentResponse{
		Payment: dto.FromModel(res.Payment),
		Ledger:  dto.FromLedger(res.Ledger),
	})
}

// GET /api/payments?student_id=&method=&from=&to=
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	q := service.ListQuery{
		Method: c.Query("method"),
		Params: helper.ParseFiber(c, "payment_date", "desc", helper.DefaultOpts),
	}
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := parseUUID(v, "student_id")
		if err != nil {
			return helper.FromServiceError(c, err)
		}
		q.StudentID = &id
	}
	var err error
	if q.From, err = optionalDate(c, "from"); err != nil {
		return helper.FromServiceError(c, err)
	}
	if q.To, err = optionalDate(c, "to"); err != nil {
		return helper.FromServiceError(c, err)
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), q)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, q.Params))
}

// GET /api/payments/:id
func (ctl *PaymentController) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m))
}

// PATCH /api/payments/:id/printed
func (ctl *PaymentController) MarkPrinted(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := ctl.Svc.MarkPrinted(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Receipt marked as printed", dto.FromModel(*m))
}

// GET /api/students/:id/payments
func (ctl *PaymentController) StudentPayments(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	p := helper.ParseFiber(c, "payment_date", "desc", helper.DefaultOpts)
	rows, total, err := ctl.Svc.StudentPayments(c.UserContext(), id, p)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, p))
}

// GET /api/students/:id/ledger
func (ctl *PaymentController) StudentLedger(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	p := helper.ParseFiber(c, "ledger_date", "desc", helper.DefaultOpts)
	rows, total, err := ctl.Svc.StudentLedger(c.UserContext(), id, p)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromLedgers(rows), helper.BuildMeta(total, p))
}
