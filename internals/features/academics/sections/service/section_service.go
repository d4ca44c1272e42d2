package service

import (
	"context"
	"errors"
	"strings"

	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	"cashierku_backend/internals/features/academics/sections/dto"
	"cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const errDuplicateName = "a section with this name already exists in the grade level"

type SectionService struct {
	DB *gorm.DB
}

func NewSectionService(db *gorm.DB) *SectionService {
	return &SectionService{DB: db}
}

var sectionSorts = map[string]string{
	"display_order": "section_display_order",
	"name":          "section_name",
	"created_at":    "section_created_at",
}

func (s *SectionService) List(ctx context.Context, gradeLevelID *uuid.UUID, p helper.Params) ([]model.Section, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Section{})
	if gradeLevelID != nil {
		tx = tx.Where("section_grade_level_id = ?", *gradeLevelID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, err := p.OrderClause(sectionSorts, "display_order")
	if err != nil {
		return nil, 0, err
	}
	var rows []model.Section
	if err := tx.Order(order).Order("section_name ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *SectionService) Get(ctx context.Context, id uuid.UUID) (*model.Section, error) {
	var m model.Section
	if err := s.DB.WithContext(ctx).First(&m, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("section", id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *SectionService) nameTaken(ctx context.Context, gradeLevelID uuid.UUID, name string, except uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&model.Section{}).
		Where("section_grade_level_id = ? AND LOWER(section_name) = ?", gradeLevelID, strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("section_id <> ?", except)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *SectionService) Create(ctx context.Context, req dto.CreateSectionRequest) (*model.Section, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}

	var grade gradeModel.GradeLevel
	if err := s.DB.WithContext(ctx).Select("grade_level_id").
		First(&grade, "grade_level_id = ?", req.GradeLevelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("grade level", req.GradeLevelID)
		}
		return nil, err
	}
	if taken, err := s.nameTaken(ctx, req.GradeLevelID, req.Name, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, helper.NewConflict(errDuplicateName, nil)
	}

	m := req.ToModel()
	inGrade := func(q *gorm.DB) *gorm.DB { return q.Where("section_grade_level_id = ?", req.GradeLevelID) }
	err := helper.CreateWithUniqueSlug(ctx, s.DB, "sections", "section_slug",
		helper.Slugify(m.SectionName, 100), inGrade,
		func(slug string) error {
			m.SectionID = uuid.Nil
			m.SectionSlug = slug
			return s.DB.WithContext(ctx).Create(&m).Error
		})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateName, err)
		}
		return nil, err
	}
	return &m, nil
}

func (s *SectionService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSectionRequest) (*model.Section, error) {
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
	if req.Name != nil && *req.Name != m.SectionName {
		if taken, err := s.nameTaken(ctx, m.SectionGradeLevelID, *req.Name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, helper.NewConflict(errDuplicateName, nil)
		}
		scope := func(q *gorm.DB) *gorm.DB {
			return q.Where("section_grade_level_id = ? AND section_id <> ?", m.SectionGradeLevelID, id)
		}
		slug, err := helper.EnsureUniqueSlug(ctx, s.DB, "sections", "section_slug", helper.Slugify(*req.Name, 100), scope)
		if err != nil {
			return nil, err
		}
		updates["section_name"] = *req.Name
		updates["section_slug"] = slug
	}
	if req.DisplayOrder != nil {
		updates["section_display_order"] = *req.DisplayOrder
	}
	if req.IsActive != nil {
		updates["section_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateName, err)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while any student is enrolled in the section.
func (s *SectionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Section
		if err := tx.First(&m, "section_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewNotFound("section", id)
			}
			return err
		}
		var n int64
		if err := tx.Model(&studentModel.Student{}).Where("student_section_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.NewConflict("section still has enrolled students", nil)
		}
		return tx.Delete(&m).Error
	})
}
