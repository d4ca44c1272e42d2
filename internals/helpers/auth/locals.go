package helper

import (
	"strings"

	"cashierku_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (AuthJWT sets these)
   ============================================ */

const (
	LocUserID   = "user_id"   // string UUID
	LocUserRole = "userRole"  // string
	LocUserName = "user_name" // string
)

// GetUserID reads the operator id placed in locals by AuthJWT.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	switch v := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return v, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(v)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: user_id missing from token")
}

func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserRole).(string)
	return strings.ToLower(strings.TrimSpace(s))
}

func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserName).(string)
	return s
}

// Can reports whether the current operator's role carries perm.
func Can(c *fiber.Ctx, perm string) bool {
	return constants.RoleHas(GetRole(c), perm)
}
