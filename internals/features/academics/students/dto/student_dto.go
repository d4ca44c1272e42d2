package dto

import (
	"strings"
	"time"

	"cashierku_backend/internals/features/academics/students/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateStudentRequest struct {
	StudentNumber string     `json:"student_number" validate:"required,max=40"`
	FirstName     string     `json:"student_first_name" validate:"required,max=80"`
	MiddleName    *string    `json:"student_middle_name" validate:"omitempty,max=80"`
	LastName      string     `json:"student_last_name" validate:"required,max=80"`
	GradeLevelID  uuid.UUID  `json:"student_grade_level_id" validate:"required"`
	SectionID     *uuid.UUID `json:"student_section_id"`
	Status        string     `json:"student_status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentNumber = strings.TrimSpace(r.StudentNumber)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.MiddleName = trimOrNil(r.MiddleName)
}

func (r CreateStudentRequest) ToModel() model.Student {
	status := r.Status
	if status == "" {
		status = model.StudentStatusActive
	}
	return model.Student{
		StudentNumber:       r.StudentNumber,
		StudentFirstName:    r.FirstName,
		StudentMiddleName:   r.MiddleName,
		StudentLastName:     r.LastName,
		StudentGradeLevelID: r.GradeLevelID,
		StudentSectionID:    r.SectionID,
		StudentStatus:       status,
	}
}

// UpdateStudentRequest covers edits, transfers and promotions. Moving to
// another grade level without a section drops the old section.
type UpdateStudentRequest struct {
	StudentNumber *string    `json:"student_number" validate:"omitempty,min=1,max=40"`
	FirstName     *string    `json:"student_first_name" validate:"omitempty,min=1,max=80"`
	MiddleName    *string    `json:"student_middle_name" validate:"omitempty,max=80"`
	LastName      *string    `json:"student_last_name" validate:"omitempty,min=1,max=80"`
	GradeLevelID  *uuid.UUID `json:"student_grade_level_id"`
	SectionID     *uuid.UUID `json:"student_section_id"`
	ClearSection  bool       `json:"clear_section"`
	Status        *string    `json:"student_status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

func (r *UpdateStudentRequest) Normalize() {
	for _, p := range []*string{r.StudentNumber, r.FirstName, r.LastName} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if r.MiddleName != nil {
		v := strings.TrimSpace(*r.MiddleName)
		r.MiddleName = &v
	}
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
}

func trimOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

type StudentResponse struct {
	StudentID           uuid.UUID  `json:"student_id"`
	StudentNumber       string     `json:"student_number"`
	StudentFirstName    string     `json:"student_first_name"`
	StudentMiddleName   *string    `json:"student_middle_name,omitempty"`
	StudentLastName     string     `json:"student_last_name"`
	StudentFullName     string     `json:"student_full_name"`
	StudentGradeLevelID uuid.UUID  `json:"student_grade_level_id"`
	StudentSectionID    *uuid.UUID `json:"student_section_id,omitempty"`
	StudentStatus       string     `json:"student_status"`
	StudentCreatedAt    time.Time  `json:"student_created_at"`
	StudentUpdatedAt    time.Time  `json:"student_updated_at"`
}

func FromModel(m model.Student) StudentResponse {
	return StudentResponse{
		StudentID:           m.StudentID,
		StudentNumber:       m.StudentNumber,
		StudentFirstName:    m.StudentFirstName,
		StudentMiddleName:   m.StudentMiddleName,
		StudentLastName:     m.StudentLastName,
		StudentFullName:     m.FullName(),
		StudentGradeLevelID: m.StudentGradeLevelID,
		StudentSectionID:    m.StudentSectionID,
		StudentStatus:       m.StudentStatus,
		StudentCreatedAt:    m.StudentCreatedAt,
		StudentUpdatedAt:    m.StudentUpdatedAt,
	}
}

// StudentSummary is one row of the directory search used by the payment wizard.
type StudentSummary struct {
	ID             uuid.UUID       `json:"id"`
	StudentNumber  string          `json:"student_number"`
	Name           string          `json:"name"`
	GradeLevelID   uuid.UUID       `json:"grade_level_id"`
	GradeLevelName string          `json:"grade_level_name"`
	SectionID      *uuid.UUID      `json:"section_id,omitempty"`
	SectionName    *string         `json:"section_name,omitempty"`
	Status         string          `json:"status"`
	Balance        decimal.Decimal `json:"balance"`
}

type BalanceResponse struct {
	StudentID  uuid.UUID       `json:"student_id"`
	SchoolYear string          `json:"school_year"`
	TotalFees  decimal.Decimal `json:"total_fees"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	Balance    decimal.Decimal `json:"balance"`
}
