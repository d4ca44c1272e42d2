package finance

import (
	"log"
	"os"
	"strings"

	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	"cashierku_backend/internals/seeds/academics"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FeeStructureSeed struct {
	GradeLevel  string          `json:"grade_level"`
	FeeType     string          `json:"fee_type"`
	Amount      decimal.Decimal `json:"amount"`
	SchoolYear  string          `json:"school_year"`
	IsRequired  *bool           `json:"is_required"`
	Description *string         `json:"description"`
}

// SeedFeeStructuresFromJSON skips rows whose (grade, fee type, year) already exists.
func SeedFeeStructuresFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Reading fee structures:", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []FeeStructureSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return err
	}

	for _, in := range inputs {
		gradeID, err := academics.GradeLevelID(db, in.GradeLevel)
		if err != nil {
			return err
		}
		feeType := strings.TrimSpace(in.FeeType)

		var n int64
		if err := db.Model(&feeModel.FeeStructure{}).
			Where("fee_structure_grade_level_id = ? AND fee_structure_fee_type = ? AND fee_structure_school_year = ?", gradeID, feeType, in.SchoolYear).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Printf("ℹ️ Fee '%s %s %s' exists, skipped.", in.GradeLevel, feeType, in.SchoolYear)
			continue
		}

		required := true
		if in.IsRequired != nil {
			required = *in.IsRequired
		}
		if err := db.Create(&feeModel.FeeStructure{
			FeeStructureGradeLevelID: gradeID,
			FeeStructureFeeType:      feeType,
			FeeStructureAmount:       in.Amount,
			FeeStructureSchoolYear:   in.SchoolYear,
			FeeStructureIsRequired:   required,
			FeeStructureIsActive:     true,
			FeeStructureDescription:  in.Description,
		}).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted fee '%s %s %s' = %s", in.GradeLevel, feeType, in.SchoolYear, in.Amount)
	}
	return nil
}
