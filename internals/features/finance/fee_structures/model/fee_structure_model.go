package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeStructure is one charge (tuition, miscellaneous, laboratory, ...) for a
// grade level in a school year. (grade, fee_type, school_year) is unique.
type FeeStructure struct {
	FeeStructureID           uuid.UUID       `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureGradeLevelID uuid.UUID       `gorm:"column:fee_structure_grade_level_id;type:uuid;not null;uniqueIndex:uq_fee_structures_grade_type_year,priority:1;index:idx_fee_structures_lookup,priority:1" json:"fee_structure_grade_level_id"`
	FeeStructureFeeType      string          `gorm:"column:fee_structure_fee_type;type:varchar(80);not null;uniqueIndex:uq_fee_structures_grade_type_year,priority:2" json:"fee_structure_fee_type"`
	FeeStructureSchoolYear   string          `gorm:"column:fee_structure_school_year;type:varchar(9);not null;uniqueIndex:uq_fee_structures_grade_type_year,priority:3;index:idx_fee_structures_lookup,priority:2" json:"fee_structure_school_year"`
	FeeStructureAmount       decimal.Decimal `gorm:"column:fee_structure_amount;type:numeric(14,2);not null" json:"fee_structure_amount"`
	FeeStructureIsRequired   bool            `gorm:"column:fee_structure_is_required;not null" json:"fee_structure_is_required"`
	FeeStructureIsActive     bool            `gorm:"column:fee_structure_is_active;not null;index:idx_fee_structures_lookup,priority:3" json:"fee_structure_is_active"`
	FeeStructureDescription  *string         `gorm:"column:fee_structure_description;type:text" json:"fee_structure_description,omitempty"`

	FeeStructureCreatedAt time.Time `gorm:"column:fee_structure_created_at;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time `gorm:"column:fee_structure_updated_at;autoUpdateTime" json:"fee_structure_updated_at"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (f *FeeStructure) BeforeCreate(*gorm.DB) error {
	if f.FeeStructureID == uuid.Nil {
		f.FeeStructureID = uuid.New()
	}
	return nil
}
