package service

import (
	"context"
	"testing"
	"time"

	"cashierku_backend/internals/features/users/auth/dto"
	authModel "cashierku_backend/internals/features/users/auth/model"
	helper "cashierku_backend/internals/helpers"
	helperAuth "cashierku_backend/internals/helpers/auth"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*AuthService, *authModel.UserModel) {
	db := testdb.Open(t, &authModel.UserModel{}, &helperAuth.TokenBlacklist{})
	hash, err := HashPassword("cashier12345")
	require.NoError(t, err)
	u := &authModel.UserModel{UserName: "Front Desk", Email: "cashier@school.test", Password: hash, Role: "cashier", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return NewAuthService(db, "test-secret", time.Hour), u
}

func TestLogin(t *testing.T) {
	svc, u := newAuth(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginRequest{Email: " Cashier@School.test ", Password: "cashier12345"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "cashier@school.test", Password: "wrong-password"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@school.test", Password: "cashier12345"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, u := newAuth(t)
	require.NoError(t, svc.DB.Model(u).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "cashier12345"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	svc, u := newAuth(t)
	ctx := context.Background()

	first, _, err := svc.IssueToken(u)
	require.NoError(t, err)
	svc.Now = func() time.Time { return time.Now().Add(time.Second) }
	second, _, err := svc.IssueToken(u)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, svc.Logout(ctx, first, time.Time{}))

	revoked, err := svc.IsRevoked(ctx, first)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = svc.IsRevoked(ctx, second)
	require.NoError(t, err)
	assert.False(t, revoked)

	// logging out twice is harmless
	require.NoError(t, svc.Logout(ctx, first, time.Time{}))
}

func TestChangePassword(t *testing.T) {
	svc, u := newAuth(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "cashier12345", NewPassword: "short"})
	assert.True(t, helper.IsValidation(err))

	err = svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "nope-nope", NewPassword: "brand-new-pass"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "cashier12345", NewPassword: "brand-new-pass"}))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: u.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}
