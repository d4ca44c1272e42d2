package controller

import (
	"strconv"
	"strings"

	"cashierku_backend/internals/features/finance/fee_structures/dto"
	"cashierku_backend/internals/features/finance/fee_structures/service"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FeeStructureController struct {
	Svc *service.FeeStructureService
}

func NewFeeStructureController(svc *service.FeeStructureService) *FeeStructureController {
	return &FeeStructureController{Svc: svc}
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a UUID")
	}
	return id, nil
}

// GET /api/fees?grade_level_id=&school_year=&is_active=
func (ctl *FeeStructureController) List(c *fiber.Ctx) error {
	q := service.ListQuery{
		SchoolYear: c.Query("school_year"),
		Params:     helper.ParseFiber(c, "fee_type", "asc", helper.DefaultOpts),
	}
	if v := strings.TrimSpace(c.Query("grade_level_id")); v != "" {
		id, err := parseUUID(v, "grade_level_id")
		if err != nil {
			return helper.FromServiceError(c, err)
		}
		q.GradeLevelID = &id
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "is_active must be true or false")
		}
		q.IsActive = &b
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), q)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, q.Params))
}

// GET /api/fees/catalog?grade_level_id=&school_year=
func (ctl *FeeStructureController) Catalog(c *fiber.Ctx) error {
	gradeID, err := parseUUID(c.Query("grade_level_id"), "grade_level_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	year := strings.TrimSpace(c.Query("school_year"))
	if year == "" {
		year = dbtime.GetSchoolYear(c)
	}
	fees, err := ctl.Svc.Resolve(c.UserContext(), gradeID, year)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToCatalog(gradeID, year, fees, service.DefaultSelection(fees)))
}

// GET /api/fees/:id
func (ctl *FeeStructureController) Get(c *fiber.Ctx) error {
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

// POST /api/fees
func (ctl *FeeStructureController) Create(c *fiber.Ctx) error {
	var req dto.CreateFeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Fee structure created", dto.FromModel(*m))
}

// PATCH /api/fees/:id
func (ctl *FeeStructureController) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateFeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Fee structure updated", dto.FromModel(*m))
}

// DELETE /api/fees/:id
func (ctl *FeeStructureController) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Fee structure deleted", fiber.Map{"fee_structure_id": id})
}
