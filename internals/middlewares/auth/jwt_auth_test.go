package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"cashierku_backend/internals/constants"
	authModel "cashierku_backend/internals/features/users/auth/model"
	authService "cashierku_backend/internals/features/users/auth/service"
	helperAuth "cashierku_backend/internals/helpers/auth"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthJWT_PermissionsAndRevocation(t *testing.T) {
	db := testdb.Open(t, &helperAuth.TokenBlacklist{})
	svc := authService.NewAuthService(db, "test-secret", time.Hour)

	app := fiber.New()
	api := app.Group("/api", AuthJWT(AuthJWTOpts{Secret: "test-secret", IsRevoked: svc.IsRevoked}))
	api.Post("/payments", RequirePermission(constants.PermCreatePayments), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	token := func(role string) string {
		tok, _, err := svc.IssueToken(&authModel.UserModel{ID: uuid.New(), UserName: "x", Role: role})
		require.NoError(t, err)
		return tok
	}
	call := func(tok string) int {
		req := httptest.NewRequest("POST", "/api/payments", nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	cashier := token(constants.RoleCashier)
	assert.Equal(t, fiber.StatusCreated, call(cashier))
	assert.Equal(t, fiber.StatusForbidden, call(token(constants.RoleAccountant)))
	assert.Equal(t, fiber.StatusUnauthorized, call(""))
	assert.Equal(t, fiber.StatusUnauthorized, call("not-a-jwt"))

	require.NoError(t, svc.Logout(context.Background(), cashier, time.Time{}))
	assert.Equal(t, fiber.StatusUnauthorized, call(cashier))
}
