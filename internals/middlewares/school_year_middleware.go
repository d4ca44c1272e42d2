package middlewares

import (
	"time"

	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
)

// SchoolYear stores the school's location and the current school year in locals,
// so services receive the year as an argument instead of reading a global.
func SchoolYear(tzName string, startMonth time.Month) fiber.Handler {
	loc := dbtime.LoadLocation(tzName)
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocSchoolLoc, loc)
		c.Locals(dbtime.LocSchoolYear, helper.SchoolYearFor(time.Now().In(loc), startMonth))
		return c.Next()
	}
}
