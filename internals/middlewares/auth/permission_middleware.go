package auth

import (
	"log"

	"cashierku_backend/internals/constants"
	helper "cashierku_backend/internals/helpers"
	helperAuth "cashierku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission lets the request through only when the operator's role carries perm.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if helperAuth.Can(c, perm) {
			return c.Next()
		}
		log.Printf("[WARN] role=%s denied %s %s (needs %s)", role, c.Method(), c.Path(), perm)
		return helper.JsonError(c, fiber.StatusForbidden, constants.PermissionError(role, perm))
	}
}
