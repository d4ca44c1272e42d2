package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section is a class group inside one grade level (e.g. "Grade 7 - Rizal").
type Section struct {
	SectionID           uuid.UUID `gorm:"column:section_id;type:uuid;primaryKey" json:"section_id"`
	SectionGradeLevelID uuid.UUID `gorm:"column:section_grade_level_id;type:uuid;not null;uniqueIndex:uq_sections_grade_name,priority:1;uniqueIndex:uq_sections_grade_slug,priority:1" json:"section_grade_level_id"`
	SectionName         string    `gorm:"column:section_name;type:varchar(80);not null;uniqueIndex:uq_sections_grade_name,priority:2" json:"section_name"`
	SectionSlug         string    `gorm:"column:section_slug;type:varchar(100);not null;uniqueIndex:uq_sections_grade_slug,priority:2" json:"section_slug"`
	SectionDisplayOrder int       `gorm:"column:section_display_order;not null" json:"section_display_order"`
	SectionIsActive     bool      `gorm:"column:section_is_active;not null" json:"section_is_active"`

	SectionCreatedAt time.Time `gorm:"column:section_created_at;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt time.Time `gorm:"column:section_updated_at;autoUpdateTime" json:"section_updated_at"`
}

func (Section) TableName() string { return "sections" }

func (s *Section) BeforeCreate(*gorm.DB) error {
	if s.SectionID == uuid.Nil {
		s.SectionID = uuid.New()
	}
	return nil
}
