// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"cashierku_backend/internals/features/users/auth/controller"
	"cashierku_backend/internals/features/users/auth/service"
	middlewares "cashierku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

// AuthPublicRoutes: /api/auth (no token)
func AuthPublicRoutes(r fiber.Router, svc *service.AuthService) {
	ctl := controller.NewAuthController(svc)
	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
}

// AuthProtectedRoutes: /api/auth (behind AuthJWT)
func AuthProtectedRoutes(r fiber.Router, svc *service.AuthService) {
	ctl := controller.NewAuthController(svc)
	r.Get("/me", ctl.Me)
	r.Post("/logout", ctl.Logout)
	r.Post("/change-password", ctl.ChangePassword)
}
