package controller

import (
	"strconv"
	"strings"

	"cashierku_backend/internals/features/academics/grade_levels/dto"
	"cashierku_backend/internals/features/academics/grade_levels/service"
	helper "cashierku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GradeLevelController struct {
	Svc *service.GradeLevelService
}

func NewGradeLevelController(svc *service.GradeLevelService) *GradeLevelController {
	return &GradeLevelController{Svc: svc}
}

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a UUID")
	}
	return id, nil
}

// GET /api/grade-levels
func (ctl *GradeLevelController) List(c *fiber.Ctx) error {
	q := service.ListQuery{
		Q:      c.Query("q"),
		Params: helper.ParseFiber(c, "display_order", "asc", helper.DefaultOpts),
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

// GET /api/grade-levels/:id
func (ctl *GradeLevelController) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m))
}

// POST /api/grade-levels
func (ctl *GradeLevelController) Create(c *fiber.Ctx) error {
	var req dto.CreateGradeLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Grade level created", dto.FromModel(*m))
}

// PATCH /api/grade-levels/:id
func (ctl *GradeLevelController) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateGradeLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Grade level updated", dto.FromModel(*m))
}

// DELETE /api/grade-levels/:id
func (ctl *GradeLevelController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Grade level deleted", fiber.Map{"grade_level_id": id})
}
