package route

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"cashierku_backend/internals/constants"
	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	helperAuth "cashierku_backend/internals/helpers/auth"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogBody struct {
	Success bool `json:"success"`
	Data    struct {
		GradeLevelID uuid.UUID `json:"grade_level_id"`
		SchoolYear   string    `json:"school_year"`
		Fees         []struct {
			ID         uuid.UUID       `json:"id"`
			FeeType    string          `json:"fee_type"`
			Amount     decimal.Decimal `json:"amount"`
			IsRequired bool            `json:"is_required"`
		} `json:"fees"`
		DefaultSelection []uuid.UUID    `json:"default_selection"`
		DefaultTotal     decimal.Decimal `json:"default_total"`
	} `json:"data"`
}

func newApp(t *testing.T, role string) (*fiber.App, studentModel.Student, []feeModel.FeeStructure) {
	db := testdb.Open(t, &gradeModel.GradeLevel{}, &studentModel.Student{}, &feeModel.FeeStructure{})
	grade := gradeModel.GradeLevel{GradeLevelName: "Grade 7", GradeLevelSlug: "grade-7", GradeLevelIsActive: true}
	require.NoError(t, db.Create(&grade).Error)
	st := studentModel.Student{StudentNumber: "2024-0100", StudentFirstName: "Ana", StudentLastName: "Reyes", StudentGradeLevelID: grade.GradeLevelID}
	require.NoError(t, db.Create(&st).Error)

	fees := []feeModel.FeeStructure{
		{FeeStructureFeeType: "Tuition", FeeStructureAmount: decimal.NewFromInt(30000), FeeStructureIsRequired: true},
		{FeeStructureFeeType: "Miscellaneous", FeeStructureAmount: decimal.NewFromInt(6000), FeeStructureIsRequired: true},
		{FeeStructureFeeType: "Laboratory", FeeStructureAmount: decimal.NewFromInt(2000)},
	}
	for i := range fees {
		fees[i].FeeStructureGradeLevelID = grade.GradeLevelID
		fees[i].FeeStructureSchoolYear = "2024-2025"
		fees[i].FeeStructureIsActive = true
		require.NoError(t, db.Create(&fees[i]).Error)
	}

	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, uuid.NewString())
		c.Locals(helperAuth.LocUserRole, role)
		return c.Next()
	})
	StudentRoutes(api, db)
	return app, st, fees
}

func getFees(t *testing.T, app *fiber.App, studentID string) (int, catalogBody) {
	req := httptest.NewRequest(fiber.MethodGet, "/api/students/"+studentID+"/fees?school_year=2024-2025", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out catalogBody
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestStudentFees_Catalog(t *testing.T) {
	app, st, fees := newApp(t, constants.RoleCashier)
	status, body := getFees(t, app, st.StudentID.String())
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, body.Success)

	assert.Equal(t, st.StudentGradeLevelID, body.Data.GradeLevelID)
	assert.Equal(t, "2024-2025", body.Data.SchoolYear)
	require.Len(t, body.Data.Fees, 3)
	assert.Equal(t, "Laboratory", body.Data.Fees[0].FeeType)
	assert.Equal(t, "Miscellaneous", body.Data.Fees[1].FeeType)
	assert.Equal(t, "Tuition", body.Data.Fees[2].FeeType)
	assert.False(t, body.Data.Fees[0].IsRequired)
	assert.True(t, body.Data.Fees[2].IsRequired)
	assert.True(t, decimal.NewFromInt(2000).Equal(body.Data.Fees[0].Amount))

	// every fee starts selected, in catalog order
	assert.Equal(t, []uuid.UUID{fees[2].FeeStructureID, fees[1].FeeStructureID, fees[0].FeeStructureID}, body.Data.DefaultSelection)
	assert.True(t, decimal.NewFromInt(38000).Equal(body.Data.DefaultTotal), "got %s", body.Data.DefaultTotal)
}

func TestStudentFees_UnknownStudent(t *testing.T) {
	app, _, _ := newApp(t, constants.RoleCashier)
	status, _ := getFees(t, app, uuid.NewString())
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestStudentFees_BadID(t *testing.T) {
	app, _, _ := newApp(t, constants.RoleCashier)
	status, _ := getFees(t, app, "nope")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStudentFees_PermissionBoundary(t *testing.T) {
	cases := []struct {
		role   string
		status int
	}{
		{constants.RoleCashier, fiber.StatusOK},
		{constants.RoleAccountant, fiber.StatusOK},
		{constants.RoleManager, fiber.StatusOK},
		{"guest", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			app, st, _ := newApp(t, tc.role)
			status, _ := getFees(t, app, st.StudentID.String())
			assert.Equal(t, tc.status, status)
		})
	}
}
