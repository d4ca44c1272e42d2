package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewFieldError("amount", "amount must be greater than 0"), fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", NewNotFound("student", "abc"), fiber.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflict("fee already exists", errors.New("dup")), fiber.StatusConflict, "CONFLICT"},
		{"wrapped conflict", fmt.Errorf("create: %w", NewConflict("slug taken", nil)), fiber.StatusConflict, "CONFLICT"},
		{"forbidden", NewAuthorizationError("create_payments"), fiber.StatusForbidden, "FORBIDDEN"},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad id"), fiber.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("disk on fire"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromServiceError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.ErrorCode)
		})
	}
}

func TestFromServiceError_ValidationFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FromServiceError(c, NewValidationError("validation failed",
			FieldError{Field: "amount", Message: "amount must be greater than 0"},
			FieldError{Field: "payment_method", Message: "payment_method must be one of [cash check online]"},
		))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"amount must be greater than 0"}, body.Errors["amount"])
	assert.Contains(t, body.Errors, "payment_method")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: payments.payment_receipt_number")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		SchoolYear string `json:"school_year" validate:"required,school_year"`
		Method     string `json:"payment_method" validate:"oneof=cash check online"`
	}
	err := ValidateStruct(input{SchoolYear: "2024-2026", Method: "card"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := ve.FieldMap()
	assert.Equal(t, []string{"school_year must look like 2024-2025"}, fields["school_year"])
	assert.Contains(t, fields, "payment_method")

	assert.NoError(t, ValidateStruct(input{SchoolYear: "2024-2025", Method: "cash"}))
}
