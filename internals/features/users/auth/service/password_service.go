package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cashierku_backend/internals/features/users/auth/dto"
	authRepo "cashierku_backend/internals/features/users/auth/repository"
	helper "cashierku_backend/internals/helpers"
)

// bcrypt of a random string, used to keep timing flat for unknown emails
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3b6sAAcEq3bD5wz6OPiF5xW"

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ChangePassword replaces the operator's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if err := helper.ValidateStruct(req); err != nil {
		return err
	}
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NewNotFound("user", userID)
		}
		return err
	}
	if err := CheckPasswordHash(user.Password, req.CurrentPassword); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Current password incorrect")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, s.DB, userID, hash)
}
