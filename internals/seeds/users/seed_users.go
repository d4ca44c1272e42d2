package users

import (
	"errors"
	"log"
	"os"
	"strings"

	"cashierku_backend/internals/constants"
	authModel "cashierku_backend/internals/features/users/auth/model"
	authService "cashierku_backend/internals/features/users/auth/service"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedUsersFromJSON inserts the operators in filePath, skipping emails that already exist.
func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Reading users:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return err
	}

	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		role := strings.ToLower(strings.TrimSpace(data.Role))
		if !constants.IsValidRole(role) {
			log.Printf("❌ %s: unknown role %q, skipped", email, data.Role)
			continue
		}

		var existing authModel.UserModel
		err := db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped.", email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := authService.HashPassword(data.Password)
		if err != nil {
			return err
		}
		u := authModel.UserModel{
			UserName: data.UserName,
			Email:    email,
			Password: hashed,
			Role:     role,
			IsActive: true,
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		log.Printf("✅ Inserted user '%s' (%s)", email, role)
	}
	return nil
}
