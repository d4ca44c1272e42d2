package academics

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	sectionModel "cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	helper "cashierku_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradeLevelSeed struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

type SectionSeed struct {
	GradeLevel   string `json:"grade_level"` // grade level name
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

type StudentSeed struct {
	Number     string  `json:"student_number"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	GradeLevel string  `json:"grade_level"`
	Section    string  `json:"section"`
	Status     string  `json:"status"`
}

func readJSON[T any](filePath string) ([]T, error) {
	log.Println("📥 Reading", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := sonic.Unmarshal(file, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return out, nil
}

// GradeLevelID looks a grade level up by slug of its name.
func GradeLevelID(db *gorm.DB, name string) (uuid.UUID, error) {
	var g gradeModel.GradeLevel
	err := db.Where("grade_level_slug = ?", helper.Slugify(name, 100)).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("grade level %q not seeded", name)
	}
	return g.GradeLevelID, err
}

func sectionID(db *gorm.DB, gradeID uuid.UUID, name string) (uuid.UUID, error) {
	var s sectionModel.Section
	err := db.Where("section_grade_level_id = ? AND section_slug = ?", gradeID, helper.Slugify(name, 100)).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("section %q not seeded", name)
	}
	return s.SectionID, err
}

func SeedGradeLevelsFromJSON(db *gorm.DB, filePath string) error {
	inputs, err := readJSON[GradeLevelSeed](filePath)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		slug := helper.Slugify(in.Name, 100)
		var n int64
		if err := db.Model(&gradeModel.GradeLevel{}).Where("grade_level_slug = ?", slug).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Printf("ℹ️ Grade level '%s' exists, skipped.", in.Name)
			continue
		}
		if err := db.Create(&gradeModel.GradeLevel{
			GradeLevelName:         strings.TrimSpace(in.Name),
			GradeLevelSlug:         slug,
			GradeLevelDisplayOrder: in.DisplayOrder,
			GradeLevelIsActive:     true,
		}).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted grade level '%s'", in.Name)
	}
	return nil
}

func SeedSectionsFromJSON(db *gorm.DB, filePath string) error {
	inputs, err := readJSON[SectionSeed](filePath)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		gradeID, err := GradeLevelID(db, in.GradeLevel)
		if err != nil {
			return err
		}
		if _, err := sectionID(db, gradeID, in.Name); err == nil {
			log.Printf("ℹ️ Section '%s / %s' exists, skipped.", in.GradeLevel, in.Name)
			continue
		}
		if err := db.Create(&sectionModel.Section{
			SectionGradeLevelID: gradeID,
			SectionName:         strings.TrimSpace(in.Name),
			SectionSlug:         helper.Slugify(in.Name, 100),
			SectionDisplayOrder: in.DisplayOrder,
			SectionIsActive:     true,
		}).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted section '%s / %s'", in.GradeLevel, in.Name)
	}
	return nil
}

func SeedStudentsFromJSON(db *gorm.DB, filePath string) error {
	inputs, err := readJSON[StudentSeed](filePath)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		number := strings.TrimSpace(in.Number)
		var n int64
		if err := db.Model(&studentModel.Student{}).Where("student_number = ?", number).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Printf("ℹ️ Student '%s' exists, skipped.", number)
			continue
		}

		gradeID, err := GradeLevelID(db, in.GradeLevel)
		if err != nil {
			return err
		}
		st := studentModel.Student{
			StudentNumber:       number,
			StudentFirstName:    strings.TrimSpace(in.FirstName),
			StudentMiddleName:   in.MiddleName,
			StudentLastName:     strings.TrimSpace(in.LastName),
			StudentGradeLevelID: gradeID,
			StudentStatus:       strings.ToLower(strings.TrimSpace(in.Status)),
		}
		if in.Section != "" {
			sid, err := sectionID(db, gradeID, in.Section)
			if err != nil {
				return err
			}
			st.StudentSectionID = &sid
		}
		if err := db.Create(&st).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted student '%s' %s, %s", number, st.StudentLastName, st.StudentFirstName)
	}
	return nil
}
