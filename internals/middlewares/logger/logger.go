package logger

import (
	"cashierku_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware writes one access-log line per request, stamped in the
// school's zone. user_id is empty until AuthJWT has run.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.SchoolTimezone,
		Format:     "[${time}] ${ip} ${locals:reqid} ${method} ${path} ${status} ${latency} user=${locals:user_id}\n",
	})
}
