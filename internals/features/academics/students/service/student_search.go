package service

import (
	"context"
	"strings"

	"cashierku_backend/internals/features/academics/students/dto"
	"cashierku_backend/internals/features/academics/students/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/google/uuid"
)

type SearchQuery struct {
	Q            string
	GradeLevelID *uuid.UUID
	SectionID    *uuid.UUID
	Status       string
	SchoolYear   string // balance year, resolved by the caller
	Params       helper.Params
}

var studentSorts = map[string]string{
	"name":           "students.student_last_name",
	"student_number": "students.student_number",
	"created_at":     "students.student_created_at",
}

type summaryRow struct {
	StudentID           uuid.UUID
	StudentNumber       string
	StudentFirstName    string
	StudentMiddleName   *string
	StudentLastName     string
	StudentGradeLevelID uuid.UUID
	StudentSectionID    *uuid.UUID
	StudentStatus       string
	GradeLevelName      string
	SectionName         *string
}

// Search matches the free-text query against student number, first name,
// last name and "first last", case-insensitively, and returns one page of
// summaries carrying each student's derived balance for q.SchoolYear.
func (s *StudentService) Search(ctx context.Context, q SearchQuery) ([]dto.StudentSummary, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.Student{})
	if term := normalizeQuery(q.Q); term != "" {
		like := "%" + term + "%"
		tx = tx.Where(`(LOWER(students.student_number) LIKE ?
			OR LOWER(students.student_first_name) LIKE ?
			OR LOWER(students.student_last_name) LIKE ?
			OR LOWER(students.student_first_name || ' ' || students.student_last_name) LIKE ?)`,
			like, like, like, like)
	}
	if q.GradeLevelID != nil {
		tx = tx.Where("students.student_grade_level_id = ?", *q.GradeLevelID)
	}
	if q.SectionID != nil {
		tx = tx.Where("students.student_section_id = ?", *q.SectionID)
	}
	if st := strings.ToLower(strings.TrimSpace(q.Status)); st != "" {
		tx = tx.Where("students.student_status = ?", st)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order, err := q.Params.OrderClause(studentSorts, "name")
	if err != nil {
		return nil, 0, err
	}

	var rows []summaryRow
	if err := tx.Select(`students.student_id, students.student_number, students.student_first_name,
			students.student_middle_name, students.student_last_name, students.student_grade_level_id,
			students.student_section_id, students.student_status,
			grade_levels.grade_level_name, sections.section_name`).
		Joins("JOIN grade_levels ON grade_levels.grade_level_id = students.student_grade_level_id").
		Joins("LEFT JOIN sections ON sections.section_id = students.student_section_id").
		Order(order).Order("students.student_first_name ASC").Order("students.student_id ASC").
		Limit(q.Params.Limit()).Offset(q.Params.Offset()).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.StudentSummary, 0, len(rows))
	if len(rows) == 0 {
		return out, total, nil
	}

	gradeIDs := make([]uuid.UUID, 0, len(rows))
	studentIDs := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, r := range rows {
		studentIDs = append(studentIDs, r.StudentID)
		if !seen[r.StudentGradeLevelID] {
			seen[r.StudentGradeLevelID] = true
			gradeIDs = append(gradeIDs, r.StudentGradeLevelID)
		}
	}
	fees, err := s.feeTotalsByGrade(ctx, gradeIDs, q.SchoolYear)
	if err != nil {
		return nil, 0, err
	}
	paid, err := s.paidTotalsByStudent(ctx, studentIDs)
	if err != nil {
		return nil, 0, err
	}

	for _, r := range rows {
		st := model.Student{
			StudentFirstName:  r.StudentFirstName,
			StudentMiddleName: r.StudentMiddleName,
			StudentLastName:   r.StudentLastName,
		}
		out = append(out, dto.StudentSummary{
			ID:             r.StudentID,
			StudentNumber:  r.StudentNumber,
			Name:           st.FullName(),
			GradeLevelID:   r.StudentGradeLevelID,
			GradeLevelName: r.GradeLevelName,
			SectionID:      r.StudentSectionID,
			SectionName:    r.SectionName,
			Status:         r.StudentStatus,
			Balance:        fees[r.StudentGradeLevelID].Sub(paid[r.StudentID]),
		})
	}
	return out, total, nil
}
