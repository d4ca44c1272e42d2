package service

import (
	"context"
	"testing"

	"cashierku_backend/internals/features/academics/grade_levels/dto"
	"cashierku_backend/internals/features/academics/grade_levels/model"
	sectionModel "cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*GradeLevelService, *gorm.DB) {
	db := testdb.Open(t, &model.GradeLevel{}, &sectionModel.Section{}, &studentModel.Student{}, &feeModel.FeeStructure{})
	return NewGradeLevelService(db), db
}

func TestCreate_SameNameGetsSuffixedSlug(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 1"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 1"})
	require.NoError(t, err)

	assert.Equal(t, "grade-1", a.GradeLevelSlug)
	assert.Equal(t, "grade-1-1", b.GradeLevelSlug)
	assert.True(t, a.GradeLevelIsActive)
}

func TestCreate_RejectsBlankName(t *testing.T) {
	svc, db := newService(t)

	_, err := svc.Create(context.Background(), dto.CreateGradeLevelRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, helper.IsValidation(err))

	var n int64
	require.NoError(t, db.Model(&model.GradeLevel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdate_RenameKeepsOwnSlugFree(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 2"})
	require.NoError(t, err)

	name := "Grade 2 "
	same, err := svc.Update(ctx, g.GradeLevelID, dto.UpdateGradeLevelRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "grade-2", same.GradeLevelSlug)

	name = "Grade Two"
	renamed, err := svc.Update(ctx, g.GradeLevelID, dto.UpdateGradeLevelRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "grade-two", renamed.GradeLevelSlug)
}

func TestDelete_BlockedWhileStudentsEnrolled(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 3"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&studentModel.Student{
		StudentNumber:       "S-0001",
		StudentFirstName:    "Ana",
		StudentLastName:     "Cruz",
		StudentGradeLevelID: g.GradeLevelID,
	}).Error)

	err = svc.Delete(ctx, g.GradeLevelID)
	require.Error(t, err)
	assert.True(t, helper.IsConflict(err))

	_, err = svc.Get(ctx, g.GradeLevelID)
	assert.NoError(t, err, "grade level must still exist")
}

func TestDelete_BlockedBySectionsAndFees(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	withSection, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 4"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&sectionModel.Section{
		SectionGradeLevelID: withSection.GradeLevelID,
		SectionName:         "Rizal",
		SectionSlug:         "rizal",
	}).Error)
	assert.True(t, helper.IsConflict(svc.Delete(ctx, withSection.GradeLevelID)))

	withFee, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 5"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&feeModel.FeeStructure{
		FeeStructureGradeLevelID: withFee.GradeLevelID,
		FeeStructureFeeType:      "Tuition",
		FeeStructureSchoolYear:   "2024-2025",
		FeeStructureAmount:       decimal.NewFromInt(30000),
	}).Error)
	assert.True(t, helper.IsConflict(svc.Delete(ctx, withFee.GradeLevelID)))
}

func TestDelete_EmptyGradeLevel(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	g, err := svc.Create(ctx, dto.CreateGradeLevelRequest{Name: "Grade 6"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, g.GradeLevelID))

	_, err = svc.Get(ctx, g.GradeLevelID)
	assert.True(t, helper.IsNotFound(err))
	assert.True(t, helper.IsNotFound(svc.Delete(ctx, g.GradeLevelID)))
}
