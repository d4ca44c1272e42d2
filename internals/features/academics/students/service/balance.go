package service

import (
	"context"

	"cashierku_backend/internals/features/academics/students/dto"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	paymentModel "cashierku_backend/internals/features/finance/payments/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type gradeTotal struct {
	GradeLevelID uuid.UUID
	Total        decimal.Decimal
}

type studentTotal struct {
	StudentID uuid.UUID
	Total     decimal.Decimal
}

// feeTotalsByGrade sums the active fee structures of each grade level for schoolYear.
func (s *StudentService) feeTotalsByGrade(ctx context.Context, gradeIDs []uuid.UUID, schoolYear string) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(gradeIDs))
	if len(gradeIDs) == 0 {
		return out, nil
	}
	var rows []gradeTotal
	err := s.DB.WithContext(ctx).Model(&feeModel.FeeStructure{}).
		Select("fee_structure_grade_level_id AS grade_level_id, COALESCE(SUM(fee_structure_amount), 0) AS total").
		Where("fee_structure_grade_level_id IN ? AND fee_structure_school_year = ? AND fee_structure_is_active = ?",
			gradeIDs, schoolYear, true).
		Group("fee_structure_grade_level_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.GradeLevelID] = r.Total
	}
	return out, nil
}

// paidTotalsByStudent sums every recorded payment per student.
func (s *StudentService) paidTotalsByStudent(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var rows []studentTotal
	err := s.DB.WithContext(ctx).Model(&paymentModel.Payment{}).
		Select("payment_student_id AS student_id, COALESCE(SUM(payment_amount), 0) AS total").
		Where("payment_student_id IN ?", studentIDs).
		Group("payment_student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.StudentID] = r.Total
	}
	return out, nil
}

// Balance is what the student still owes: the active fees of their grade
// level for schoolYear minus everything they have paid. Overpayment gives a
// negative balance.
func (s *StudentService) Balance(ctx context.Context, studentID uuid.UUID, schoolYear string) (*dto.BalanceResponse, error) {
	if !helper.IsValidSchoolYear(schoolYear) {
		return nil, helper.NewFieldError("school_year", "school_year must look like 2024-2025")
	}
	st, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	fees, err := s.feeTotalsByGrade(ctx, []uuid.UUID{st.StudentGradeLevelID}, schoolYear)
	if err != nil {
		return nil, err
	}
	paid, err := s.paidTotalsByStudent(ctx, []uuid.UUID{studentID})
	if err != nil {
		return nil, err
	}
	totalFees := fees[st.StudentGradeLevelID]
	totalPaid := paid[studentID]
	return &dto.BalanceResponse{
		StudentID:  studentID,
		SchoolYear: schoolYear,
		TotalFees:  totalFees,
		TotalPaid:  totalPaid,
		Balance:    totalFees.Sub(totalPaid),
	}, nil
}
