package seeds

import (
	"log"
	"path/filepath"

	"cashierku_backend/internals/seeds/academics"
	"cashierku_backend/internals/seeds/finance"
	"cashierku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

const DefaultDataDir = "internals/seeds/data"

// RunAllSeeds loads every JSON file under dir in dependency order.
// Every seeder skips rows that already exist, so reruns are safe.
func RunAllSeeds(db *gorm.DB, dir string) error {
	if dir == "" {
		dir = DefaultDataDir
	}
	steps := []struct {
		file string
		fn   func(*gorm.DB, string) error
	}{
		{"data_users.json", users.SeedUsersFromJSON},
		{"data_grade_levels.json", academics.SeedGradeLevelsFromJSON},
		{"data_sections.json", academics.SeedSectionsFromJSON},
		{"data_fee_structures.json", finance.SeedFeeStructuresFromJSON},
		{"data_students.json", academics.SeedStudentsFromJSON},
	}
	for _, s := range steps {
		if err := s.fn(db, filepath.Join(dir, s.file)); err != nil {
			return err
		}
	}
	log.Println("🌱 Seeding done.")
	return nil
}
