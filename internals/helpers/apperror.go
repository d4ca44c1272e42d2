package helper

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError means the input was rejected before anything was written.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return e.Fields[0].Field + ": " + e.Fields[0].Message
	}
	return "validation failed"
}

// FieldMap groups messages per field, the shape JsonValidationError expects.
func (e *ValidationError) FieldMap() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Err }

type AuthorizationError struct {
	Permission string
}

func (e *AuthorizationError) Error() string {
	if e.Permission == "" {
		return "forbidden"
	}
	return "missing permission: " + e.Permission
}

func NewValidationError(message string, fields ...FieldError) error {
	return &ValidationError{Message: message, Fields: fields}
}

func NewFieldError(field, message string) error {
	return &ValidationError{Message: field + ": " + message, Fields: []FieldError{{Field: field, Message: message}}}
}

func NewNotFound(resource string, id any) error {
	s := ""
	if id != nil {
		s = fmt.Sprint(id)
	}
	return &NotFoundError{Resource: resource, ID: s}
}

func NewConflict(message string, err error) error {
	return &ConflictError{Message: message, Err: err}
}

func NewAuthorizationError(permission string) error {
	return &AuthorizationError{Permission: permission}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsUniqueViolation recognises unique-constraint failures from postgres (pgx),
// gorm's translated error and the sqlite driver message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// FromServiceError maps a service error to the JSON error shape.
func FromServiceError(c *fiber.Ctx, err error) error {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		ae *AuthorizationError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return JsonValidationError(c, ve.Error(), ve.FieldMap())
	case errors.As(err, &nf):
		return JsonError(c, fiber.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		if ce.Err != nil {
			log.Printf("[WARN] conflict: %s: %v", ce.Message, ce.Err)
		}
		return JsonError(c, fiber.StatusConflict, ce.Message)
	case errors.As(err, &ae):
		return JsonError(c, fiber.StatusForbidden, ae.Error())
	case errors.As(err, &fe):
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "something went wrong, nothing was saved")
}

// ErrorHandler is the app-wide fiber error handler, so errors raised by
// middlewares and unknown routes share the JSON error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromServiceError(c, err)
}
