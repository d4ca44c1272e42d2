package database

import (
	"log"
	"time"

	"cashierku_backend/internals/configs"
	gradeModel "cashierku_backend/internals/features/academics/grade_levels/model"
	sectionModel "cashierku_backend/internals/features/academics/sections/model"
	studentModel "cashierku_backend/internals/features/academics/students/model"
	feeModel "cashierku_backend/internals/features/finance/fee_structures/model"
	paymentModel "cashierku_backend/internals/features/finance/payments/model"
	authModel "cashierku_backend/internals/features/users/auth/model"
	helperAuth "cashierku_backend/internals/helpers/auth"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.PostgresDSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Models lists every table the server owns, in dependency order.
func Models() []any {
	return []any{
		&authModel.UserModel{},
		&helperAuth.TokenBlacklist{},
		&gradeModel.GradeLevel{},
		&sectionModel.Section{},
		&studentModel.Student{},
		&feeModel.FeeStructure{},
		&paymentModel.Payment{},
		&paymentModel.Ledger{},
	}
}

// AutoMigrate creates missing tables, columns and indexes. CHECK and foreign
// key constraints come from cmd/migrate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// the cashier screen opens with a student search
		var n int64
		if err := DB.Model(&studentModel.Student{}).Limit(1).Count(&n).Error; err != nil {
			log.Printf("warm-up query err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
