package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradeLevel struct {
	GradeLevelID           uuid.UUID `gorm:"column:grade_level_id;type:uuid;primaryKey" json:"grade_level_id"`
	GradeLevelName         string    `gorm:"column:grade_level_name;type:varchar(80);not null" json:"grade_level_name"`
	GradeLevelSlug         string    `gorm:"column:grade_level_slug;type:varchar(100);not null;uniqueIndex:uq_grade_levels_slug" json:"grade_level_slug"`
	GradeLevelDisplayOrder int       `gorm:"column:grade_level_display_order;not null;index:idx_grade_levels_order" json:"grade_level_display_order"`
	GradeLevelIsActive     bool      `gorm:"column:grade_level_is_active;not null" json:"grade_level_is_active"`

	GradeLevelCreatedAt time.Time `gorm:"column:grade_level_created_at;autoCreateTime" json:"grade_level_created_at"`
	GradeLevelUpdatedAt time.Time `gorm:"column:grade_level_updated_at;autoUpdateTime" json:"grade_level_updated_at"`
}

func (GradeLevel) TableName() string { return "grade_levels" }

func (g *GradeLevel) BeforeCreate(*gorm.DB) error {
	if g.GradeLevelID == uuid.Nil {
		g.GradeLevelID = uuid.New()
	}
	return nil
}
