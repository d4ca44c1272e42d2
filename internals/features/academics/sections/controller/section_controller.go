package controller

import (
	"strings"

	"cashierku_backend/internals/features/academics/sections/dto"
	"cashierku_backend/internals/features/academics/sections/service"
	helper "cashierku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SectionController struct {
	Svc *service.SectionService
}

func NewSectionController(svc *service.SectionService) *SectionController {
	return &SectionController{Svc: svc}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "id must be a UUID")
	}
	return id, nil
}

// GET /api/sections?grade_level_id=
func (ctl *SectionController) List(c *fiber.Ctx) error {
	var gradeID *uuid.UUID
	if v := strings.TrimSpace(c.Query("grade_level_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "grade_level_id must be a UUID")
		}
		gradeID = &id
	}
	p := helper.ParseFiber(c, "display_order", "asc", helper.DefaultOpts)
	rows, total, err := ctl.Svc.List(c.UserContext(), gradeID, p)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, p))
}

// GET /api/sections/:id
func (ctl *SectionController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m))
}

// POST /api/sections
func (ctl *SectionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Section created", dto.FromModel(*m))
}

// PATCH /api/sections/:id
func (ctl *SectionController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Section updated", dto.FromModel(*m))
}

// DELETE /api/sections/:id
func (ctl *SectionController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Section deleted", fiber.Map{"section_id": id})
}
