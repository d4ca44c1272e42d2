package service

import (
	"context"
	"strings"

	"cashierku_backend/internals/features/finance/fee_structures/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Resolve returns the active fee structures of a grade level for a school
// year, ordered by fee type then id. The grade level must exist; a year with
// no fees yields an empty slice. schoolYear must already be resolved by the
// caller (the request's current school year when the client sent none).
func (s *FeeStructureService) Resolve(ctx context.Context, gradeLevelID uuid.UUID, schoolYear string) ([]model.FeeStructure, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if !helper.IsValidSchoolYear(schoolYear) {
		return nil, helper.NewValidationError("invalid school year",
			helper.FieldError{Field: "school_year", Message: "school_year must look like 2024-2025"})
	}
	if err := s.ensureGradeLevel(ctx, gradeLevelID); err != nil {
		return nil, err
	}

	fees := make([]model.FeeStructure, 0)
	err := s.DB.WithContext(ctx).
		Where("fee_structure_grade_level_id = ? AND fee_structure_school_year = ? AND fee_structure_is_active = ?",
			gradeLevelID, schoolYear, true).
		Order("fee_structure_fee_type ASC").
		Order("fee_structure_id ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

// DefaultSelection is what a fresh payment starts with: every fee, required
// and optional, in catalog order. Operators deselect optional ones.
func DefaultSelection(fees []model.FeeStructure) []uuid.UUID {
	return lo.Map(fees, func(f model.FeeStructure, _ int) uuid.UUID { return f.FeeStructureID })
}
