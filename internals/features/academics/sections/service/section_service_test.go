package service

import (
	"context"
	"testing"

	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	"cashierku_backend/internals/features/academics/sections/dto"
	"cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*SectionService, *gorm.DB, uuid.UUID, uuid.UUID) {
	db := testdb.Open(t, &gradeModel.GradeLevel{}, &model.Section{}, &studentModel.Student{})
	g7 := gradeModel.GradeLevel{GradeLevelName: "Grade 7", GradeLevelSlug: "grade-7", GradeLevelIsActive: true}
	g8 := gradeModel.GradeLevel{GradeLevelName: "Grade 8", GradeLevelSlug: "grade-8", GradeLevelIsActive: true}
	require.NoError(t, db.Create(&g7).Error)
	require.NoError(t, db.Create(&g8).Error)
	return NewSectionService(db), db, g7.GradeLevelID, g8.GradeLevelID
}

func TestCreate_NameUniqueWithinGrade(t *testing.T) {
	svc, _, g7, g8 := setup(t)
	ctx := context.Background()

	s1, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "Rizal"})
	require.NoError(t, err)
	assert.Equal(t, "rizal", s1.SectionSlug)

	_, err = svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "rizal"})
	assert.True(t, helper.IsConflict(err), "same name in the same grade must conflict, got %v", err)

	other, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g8, Name: "Rizal"})
	require.NoError(t, err, "same name in another grade is fine")
	assert.Equal(t, "rizal", other.SectionSlug)
}

func TestCreate_SlugSuffixWithinGrade(t *testing.T) {
	svc, _, g7, _ := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "St. Mary"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "St Mary"})
	require.NoError(t, err)

	assert.Equal(t, "st-mary", a.SectionSlug)
	assert.Equal(t, "st-mary-1", b.SectionSlug)
}

func TestCreate_UnknownGradeLevel(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.Create(context.Background(), dto.CreateSectionRequest{GradeLevelID: uuid.New(), Name: "Bonifacio"})
	assert.True(t, helper.IsNotFound(err))
}

func TestDelete_BlockedWhileStudentsEnrolled(t *testing.T) {
	svc, db, g7, _ := setup(t)
	ctx := context.Background()

	sec, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "Mabini"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&studentModel.Student{
		StudentNumber:       "S-7001",
		StudentFirstName:    "Jose",
		StudentLastName:     "Reyes",
		StudentGradeLevelID: g7,
		StudentSectionID:    &sec.SectionID,
	}).Error)

	assert.True(t, helper.IsConflict(svc.Delete(ctx, sec.SectionID)))
	_, err = svc.Get(ctx, sec.SectionID)
	assert.NoError(t, err)
}

func TestUpdate_RenameToTakenNameConflicts(t *testing.T) {
	svc, _, g7, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "Luna"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, dto.CreateSectionRequest{GradeLevelID: g7, Name: "Aguinaldo"})
	require.NoError(t, err)

	name := "Luna"
	_, err = svc.Update(ctx, b.SectionID, dto.UpdateSectionRequest{Name: &name})
	assert.True(t, helper.IsConflict(err))
}
