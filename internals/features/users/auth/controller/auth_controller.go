package controller

import (
	"time"

	"cashierku_backend/internals/features/users/auth/dto"
	"cashierku_backend/internals/features/users/auth/service"
	helper "cashierku_backend/internals/helpers"
	helperAuth "cashierku_backend/internals/helpers/auth"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	out, err := ac.Svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Login successful", out)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	me, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", me)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	exp, _ := c.Locals(authMw.LocTokenExpiry).(time.Time)
	if err := ac.Svc.Logout(c.UserContext(), helperAuth.RawAccessToken(c), exp); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Logged out", nil)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}
