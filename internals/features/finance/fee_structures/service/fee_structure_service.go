package service

import (
	"context"
	"errors"
	"strings"

	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	"cashierku_backend/internals/features/finance/fee_structures/dto"
	"cashierku_backend/internals/features/finance/fee_structures/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const errDuplicateFee = "a fee of this type already exists for the grade level and school year"

type FeeStructureService struct {
	DB *gorm.DB
}

func NewFeeStructureService(db *gorm.DB) *FeeStructureService {
	return &FeeStructureService{DB: db}
}

type ListQuery struct {
	GradeLevelID *uuid.UUID
	SchoolYear   string
	IsActive     *bool
	Params       helper.Params
}

var feeSorts = map[string]string{
	"fee_type":    "fee_structure_fee_type",
	"amount":      "fee_structure_amount",
	"school_year": "fee_structure_school_year",
	"created_at":  "fee_structure_created_at",
}

func (s *FeeStructureService) List(ctx context.Context, q ListQuery) ([]model.FeeStructure, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.FeeStructure{})
	if q.GradeLevelID != nil {
		tx = tx.Where("fee_structure_grade_level_id = ?", *q.GradeLevelID)
	}
	if y := strings.TrimSpace(q.SchoolYear); y != "" {
		tx = tx.Where("fee_structure_school_year = ?", y)
	}
	if q.IsActive != nil {
		tx = tx.Where("fee_structure_is_active = ?", *q.IsActive)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, err := q.Params.OrderClause(feeSorts, "fee_type")
	if err != nil {
		return nil, 0, err
	}
	var rows []model.FeeStructure
	if err := tx.Order(order).Order("fee_structure_id ASC").
		Limit(q.Params.Limit()).Offset(q.Params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *FeeStructureService) Get(ctx context.Context, id uuid.UUID) (*model.FeeStructure, error) {
	var m model.FeeStructure
	if err := s.DB.WithContext(ctx).First(&m, "fee_structure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewNotFound("fee structure", id)
		}
		return nil, err
	}
	return &m, nil
}

func (s *FeeStructureService) ensureGradeLevel(ctx context.Context, id uuid.UUID) error {
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

func (s *FeeStructureService) tripleTaken(ctx context.Context, gradeLevelID uuid.UUID, feeType, year string, except uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).Model(&model.FeeStructure{}).
		Where("fee_structure_grade_level_id = ? AND fee_structure_fee_type = ? AND fee_structure_school_year = ?",
			gradeLevelID, feeType, year)
	if except != uuid.Nil {
		q = q.Where("fee_structure_id <> ?", except)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// Create rejects a second fee with the same (grade level, fee type, school year).
func (s *FeeStructureService) Create(ctx context.Context, req dto.CreateFeeStructureRequest) (*model.FeeStructure, error) {
	req.Normalize()
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureGradeLevel(ctx, req.GradeLevelID); err != nil {
		return nil, err
	}
	if taken, err := s.tripleTaken(ctx, req.GradeLevelID, req.FeeType, req.SchoolYear, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, helper.NewConflict(errDuplicateFee, nil)
	}

	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateFee, err)
		}
		return nil, err
	}
	return &m, nil
}

func (s *FeeStructureService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateFeeStructureRequest) (*model.FeeStructure, error) {
	if req.FeeType != nil {
		v := strings.TrimSpace(*req.FeeType)
		req.FeeType = &v
	}
	if req.SchoolYear != nil {
		v := strings.TrimSpace(*req.SchoolYear)
		req.SchoolYear = &v
	}
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *m
	updates := map[string]any{}
	if req.GradeLevelID != nil && *req.GradeLevelID != m.FeeStructureGradeLevelID {
		if err := s.ensureGradeLevel(ctx, *req.GradeLevelID); err != nil {
			return nil, err
		}
		next.FeeStructureGradeLevelID = *req.GradeLevelID
		updates["fee_structure_grade_level_id"] = *req.GradeLevelID
	}
	if req.FeeType != nil {
		next.FeeStructureFeeType = *req.FeeType
		updates["fee_structure_fee_type"] = *req.FeeType
	}
	if req.SchoolYear != nil {
		next.FeeStructureSchoolYear = *req.SchoolYear
		updates["fee_structure_school_year"] = *req.SchoolYear
	}
	if req.Amount != nil {
		updates["fee_structure_amount"] = req.Amount.Round(2)
	}
	if req.IsRequired != nil {
		updates["fee_structure_is_required"] = *req.IsRequired
	}
	if req.IsActive != nil {
		updates["fee_structure_is_active"] = *req.IsActive
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d == "" {
			updates["fee_structure_description"] = nil
		} else {
			updates["fee_structure_description"] = d
		}
	}
	if len(updates) == 0 {
		return m, nil
	}

	if taken, err := s.tripleTaken(ctx, next.FeeStructureGradeLevelID, next.FeeStructureFeeType, next.FeeStructureSchoolYear, id); err != nil {
		return nil, err
	} else if taken {
		return nil, helper.NewConflict(errDuplicateFee, nil)
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict(errDuplicateFee, err)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a fee structure. Payments keep their own fee snapshot.
func (s *FeeStructureService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("fee_structure_id = ?", id).Delete(&model.FeeStructure{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NewNotFound("fee structure", id)
	}
	return nil
}
