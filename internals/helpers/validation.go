package helper

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

// Validator returns the shared validator with json field names, decimal support
// and english messages.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// compare money the same way numbers are compared (gt=0, gte=0, ...)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("school_year", func(fl validator.FieldLevel) bool {
			return IsValidSchoolYear(fl.Field().String())
		})

		locale := en.New()
		uni := ut.New(locale, locale)
		translator, _ = uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(v, translator)
		_ = v.RegisterTranslation("school_year", translator,
			func(t ut.Translator) error {
				return t.Add("school_year", "{0} must look like 2024-2025", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("school_year", fe.Field())
				return msg
			},
		)
		validate = v
	})
	return validate
}

// ValidateStruct runs validator tags and converts failures into *ValidationError.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return NewValidationError(err.Error())
	}
	fields := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fe.Translate(translator)})
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}
