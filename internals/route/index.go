package routes

import (
	"log"
	"time"

	"cashierku_backend/internals/configs"
	gradeRoute "cashierku_backend/internals/features/academics/grade_levels/route"
	sectionRoute "cashierku_backend/internals/features/academics/sections/route"
	studentRoute "cashierku_backend/internals/features/academics/students/route"
	feeRoute "cashierku_backend/internals/features/finance/fee_structures/route"
	paymentRoute "cashierku_backend/internals/features/finance/payments/route"
	authRoute "cashierku_backend/internals/features/users/auth/route"
	authService "cashierku_backend/internals/features/users/auth/service"
	authMw "cashierku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	api := app.Group("/api")
	authSvc := authService.NewAuthService(db, configs.JWTSecret, configs.JWTTTL)

	// PUBLIC: login only
	log.Println("[INFO] Setting up PUBLIC auth routes...")
	authRoute.AuthPublicRoutes(api.Group("/auth"), authSvc)

	// PRIVATE: every operator endpoint sits behind the access token
	log.Println("[INFO] Setting up PRIVATE group...")
	private := api.Group("",
		authMw.AuthJWT(authMw.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			IsRevoked:           authSvc.IsRevoked,
			AllowCookieFallback: true,
		}),
	)

	authRoute.AuthProtectedRoutes(private.Group("/auth"), authSvc)

	log.Println("[INFO] Mounting Academic routes...")
	gradeRoute.GradeLevelRoutes(private, db)
	sectionRoute.SectionRoutes(private, db)
	studentRoute.StudentRoutes(private, db)

	log.Println("[INFO] Mounting Finance routes...")
	feeRoute.FeeStructureRoutes(private, db)
	paymentRoute.PaymentRoutes(private, paymentRoute.NewPaymentService(db))
}
