package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StudentStatusActive      = "active"
	StudentStatusInactive    = "inactive"
	StudentStatusGraduated   = "graduated"
	StudentStatusTransferred = "transferred"
)

type Student struct {
	StudentID           uuid.UUID  `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentNumber       string     `gorm:"column:student_number;type:varchar(40);not null;uniqueIndex:uq_students_number" json:"student_number"`
	StudentFirstName    string     `gorm:"column:student_first_name;type:varchar(80);not null;index:idx_students_name,priority:2" json:"student_first_name"`
	StudentMiddleName   *string    `gorm:"column:student_middle_name;type:varchar(80)" json:"student_middle_name,omitempty"`
	StudentLastName     string     `gorm:"column:student_last_name;type:varchar(80);not null;index:idx_students_name,priority:1" json:"student_last_name"`
	StudentGradeLevelID uuid.UUID  `gorm:"column:student_grade_level_id;type:uuid;not null;index:idx_students_grade" json:"student_grade_level_id"`
	StudentSectionID    *uuid.UUID `gorm:"column:student_section_id;type:uuid;index:idx_students_section" json:"student_section_id,omitempty"`
	StudentStatus       string     `gorm:"column:student_status;type:varchar(20);not null;index:idx_students_status" json:"student_status"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (Student) TableName() string { return "students" }

func (s *Student) BeforeCreate(*gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	if s.StudentStatus == "" {
		s.StudentStatus = StudentStatusActive
	}
	return nil
}

// FullName is "First Middle Last" without empty parts.
func (s Student) FullName() string {
	parts := []string{s.StudentFirstName}
	if s.StudentMiddleName != nil && strings.TrimSpace(*s.StudentMiddleName) != "" {
		parts = append(parts, strings.TrimSpace(*s.StudentMiddleName))
	}
	parts = append(parts, s.StudentLastName)
	return strings.Join(parts, " ")
}
