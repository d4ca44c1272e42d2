package service

import (
	"context"
	"errors"
	"strings"

	"cashierku_backend/internals/features/academics/grade_levels/dto"
	"cashierku_backend/internals/features/academics/grade_levels/model"
	sectionModel "cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradeLevelService struct {
	DB *gorm.DB
}

func NewGradeLevelService(db *gorm.DB) *GradeLevelService {
	return &GradeLevelService{DB: db}
}

type ListQuery struct {
	Q        string
	IsActive *bool
	Params   helper.Params
}

var gradeLevelSorts = map[string]string{
	"display_order": "grade_level_display_order",
	"name":          "grade_level_name",
	"created_at":    "grade_level_created_at",
}

func (s *GradeLevelService) List(ctx context.Context, q ListQuery) ([]model.GradeLevel, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.GradeLevel{})
	if term := strings.TrimSpace(q.Q); term != "" {
		tx = tx.Where("LOWER(grade_level_name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if q.IsActive != nil {
		tx = tx.Where("grade_level_is_active = ?", *q.IsActive)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, err := q.Params.OrderClause(gradeLevelSorts, "display_order")
	if err != nil {
		return nil, 0, err
	}
	var rows []model.GradeLevel
	if err := tx.Order(order).Order("grade_level_name ASC").
		Limit(q.Params.Limit()).Offset(q.Params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GradeLevelService) Get(ctx context.Context, id uuid.UUID) (*model.GradeLevel, error) {
	var m model.GradeLevel
	if err := s.DB.WithContext(ctx).First(&m, "grade_level_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("grade level", id)
		}
		return nil, err
	}
	return &m, nil
}

// Create stores a grade level with a slug derived from its name; a taken slug
// gets -1, -2, ... appended.
func (s *GradeLevelService) Create(ctx context.Context, req dto.CreateGradeLevelRequest) (*model.GradeLevel, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	m := req.ToModel()
	err := helper.CreateWithUniqueSlug(ctx, s.DB, "grade_levels", "grade_level_slug",
		helper.Slugify(m.GradeLevelName, 100), nil,
		func(slug string) error {
			m.GradeLevelID = uuid.Nil
			m.GradeLevelSlug = slug
			return s.DB.WithContext(ctx).Create(&m).Error
		})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("grade level slug already taken", err)
		}
		return nil, err
	}
	return &m, nil
}

func (s *GradeLevelService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateGradeLevelRequest) (*model.GradeLevel, error) {
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		req.Name = &v
	}
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil && *req.Name != m.GradeLevelName {
		notSelf := func(q *gorm.DB) *gorm.DB { return q.Where("grade_level_id <> ?", id) }
		slug, err := helper.EnsureUniqueSlug(ctx, s.DB, "grade_levels", "grade_level_slug", helper.Slugify(*req.Name, 100), notSelf)
		if err != nil {
			return nil, err
		}
		updates["grade_level_name"] = *req.Name
		updates["grade_level_slug"] = slug
	}
	if req.DisplayOrder != nil {
		updates["grade_level_display_order"] = *req.DisplayOrder
	}
	if req.IsActive != nil {
		updates["grade_level_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("grade level slug already taken", err)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while students, sections or fee structures still point at the grade level.
func (s *GradeLevelService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.GradeLevel
		if err := tx.First(&m, "grade_level_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewNotFound("grade level", id)
			}
			return err
		}

		deps := []struct {
			what  string
			model any
			col   string
		}{
			{"students", &studentModel.Student{}, "student_grade_level_id"},
			{"sections", &sectionModel.Section{}, "section_grade_level_id"},
			{"fee structures", &feeModel.FeeStructure{}, "fee_structure_grade_level_id"},
		}
		for _, d := range deps {
			var n int64
			if err := tx.Model(d.model).Where(d.col+" = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return helper.NewConflict("grade level still has "+d.what, nil)
			}
		}
		return tx.Delete(&m).Error
	})
}
