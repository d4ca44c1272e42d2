package service

import (
	"context"
	"errors"
	"strings"

	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	sectionModel "cashierku_backend/internals/features/academics/sections/model"
	"cashierku_backend/internals/features/academics/students/dto"
	"cashierku_backend/internals/features/academics/students/model"
	paymentModel "cashierku_backend/internals/features/finance/payments/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const errDuplicateNumber = "student number is already in use"

type StudentService struct {
	DB *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db}
}

func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var m model.Student
	if err := s.DB.WithContext(ctx).First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("student", id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *StudentService) ensureGradeLevel(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&gradeModel.GradeLevel{}).
		Where("grade_level_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NewNotFound("grade level", id)
	}
	return nil
}

// ensureSectionInGrade fails when the section is unknown or belongs to another grade level.
func (s *StudentService) ensureSectionInGrade(ctx context.Context, sectionID, gradeLevelID uuid.UUID) error {
	var sec sectionModel.Section
	if err := s.DB.WithContext(ctx).Select("section_id", "section_grade_level_id").
		First(&sec, "section_id = ?", sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NewNotFound("section", sectionID)
		}
		return err
	}
	if sec.SectionGradeLevelID != gradeLevelID {
		return helper.NewFieldError("student_section_id", "student_section_id does not belong to the selected grade level")
	}
	return nil
}

func (s *StudentService) numberTaken(ctx context.Context, number string, except uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&model.Student{}).Where("student_number = ?", number)
	if except != uuid.Nil {
		q = q.Where("student_id <> ?", except)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*model.Student, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureGradeLevel(ctx, req.GradeLevelID); err != nil {
		return nil, err
	}
	if req.SectionID != nil {
		if err := s.ensureSectionInGrade(ctx, *req.SectionID, req.GradeLevelID); err != nil {
			return nil, err
		}
	}
	if taken, err := s.numberTaken(ctx, req.StudentNumber, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, helper.NewConflict(errDuplicateNumber, nil)
	}

	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateNumber, err)
		}
		return nil, err
	}
	return &m, nil
}

// Update edits a student. A grade change is a transfer or promotion: the
// section must belong to the new grade, and is cleared when none is given.
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*model.Student, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	grade := m.StudentGradeLevelID
	if req.GradeLevelID != nil && *req.GradeLevelID != grade {
		if err := s.ensureGradeLevel(ctx, *req.GradeLevelID); err != nil {
			return nil, err
		}
		grade = *req.GradeLevelID
		updates["student_grade_level_id"] = grade
		if req.SectionID == nil {
			updates["student_section_id"] = nil
		}
	}
	switch {
	case req.SectionID != nil:
		if err := s.ensureSectionInGrade(ctx, *req.SectionID, grade); err != nil {
			return nil, err
		}
		updates["student_section_id"] = *req.SectionID
	case req.ClearSection:
		updates["student_section_id"] = nil
	}
	if req.StudentNumber != nil && *req.StudentNumber != m.StudentNumber {
		if taken, err := s.numberTaken(ctx, *req.StudentNumber, id); err != nil {
			return nil, err
		} else if taken {
			return nil, helper.NewConflict(errDuplicateNumber, nil)
		}
		updates["student_number"] = *req.StudentNumber
	}
	if req.FirstName != nil {
		updates["student_first_name"] = *req.FirstName
	}
	if req.MiddleName != nil {
		if *req.MiddleName == "" {
			updates["student_middle_name"] = nil
		} else {
			updates["student_middle_name"] = *req.MiddleName
		}
	}
	if req.LastName != nil {
		updates["student_last_name"] = *req.LastName
	}
	if req.Status != nil {
		updates["student_status"] = *req.Status
	}
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateNumber, err)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while the student has recorded payments; such students are
// set inactive or transferred instead.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Student
		if err := tx.First(&m, "student_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewNotFound("student", id)
			}
			return err
		}
		var n int64
		if err := tx.Model(&paymentModel.Payment{}).Where("payment_student_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.NewConflict("student has recorded payments; change the status instead", nil)
		}
		return tx.Delete(&m).Error
	})
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
