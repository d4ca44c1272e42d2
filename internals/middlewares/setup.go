package middlewares

import (
	"cashierku_backend/internals/configs"
	"cashierku_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(SchoolYear(configs.SchoolTimezone, configs.SchoolYearStartMonth))
}
