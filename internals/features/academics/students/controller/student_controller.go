package controller

import (
	"strings"

	"cashierku_backend/internals/features/academics/students/dto"
	"cashierku_backend/internals/features/academics/students/service"
	feeDTO "cashierku_backend/internals/features/finance/fee_structures/dto"
	feeService "cashierku_backend/internals/features/finance/fee_structures/service"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StudentController struct {
	Svc    *service.StudentService
	FeeSvc *feeService.FeeStructureService
}

func NewStudentController(svc *service.StudentService, fees *feeService.FeeStructureService) *StudentController {
	return &StudentController{Svc: svc, FeeSvc: fees}
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a UUID")
	}
	return id, nil
}

func optionalUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	id, err := parseUUID(v, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func schoolYear(c *fiber.Ctx) string {
	if y := strings.TrimSpace(c.Query("school_year")); y != "" {
		return y
	}
	return dbtime.GetSchoolYear(c)
}

// GET /api/students?q=&grade_level_id=&section_id=&status=&school_year=
func (ctl *StudentController) Search(c *fiber.Ctx) error {
	q := service.SearchQuery{
		Q:          c.Query("q"),
		Status:     c.Query("status"),
		SchoolYear: schoolYear(c),
		Params:     helper.ParseFiber(c, "name", "asc", helper.SearchOpts),
	}
	var err error
	if q.GradeLevelID, err = optionalUUID(c, "grade_level_id"); err != nil {
		return helper.FromServiceError(c, err)
	}
	if q.SectionID, err = optionalUUID(c, "section_id"); err != nil {
		return helper.FromServiceError(c, err)
	}
	rows, total, err := ctl.Svc.Search(c.UserContext(), q)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, q.Params))
}

// GET /api/students/:id
func (ctl *StudentController) Get(c *fiber.Ctx) error {
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

// GET /api/students/:id/balance?school_year=
func (ctl *StudentController) Balance(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	b, err := ctl.Svc.Balance(c.UserContext(), id, schoolYear(c))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", b)
}

// GET /api/students/:id/fees?school_year=
// The catalog of the student's grade level, used by the payment wizard.
func (ctl *StudentController) Fees(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	st, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	year := schoolYear(c)
	fees, err := ctl.FeeSvc.Resolve(c.UserContext(), st.StudentGradeLevelID, year)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", feeDTO.ToCatalog(st.StudentGradeLevelID, year, fees, feeService.DefaultSelection(fees)))
}

// POST /api/students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Student created", dto.FromModel(*m))
}

// PATCH /api/students/:id
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Student updated", dto.FromModel(*m))
}

// DELETE /api/students/:id
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"student_id": id})
}
