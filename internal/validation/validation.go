// Package validation wires the lead schema's custom rules into a
// go-playground validator instance and converts validator failures into an
// explicit field-error result suitable for a 400 response body.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phoneCharset   = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	telegramHandle = regexp.MustCompile(`^@?[A-Za-z0-9_]{5,32}$`)
	digitsOnly     = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 7

// FieldError describes a single schema violation in a submitted payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New constructs a validator with the lead schema's custom rules registered.
// Field names in violations follow the json tag, not the Go field name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for blank tags or nil funcs.
	_ = v.RegisterValidation("lead_phone", validPhone)
	_ = v.RegisterValidation("tg_handle", validTelegram)

	return v
}

// validPhone accepts international numbers in a permissive shape: 7-20
// characters of digits, spaces, hyphens, plus signs and parentheses, with at
// least 7 digits overall.
func validPhone(fl validator.FieldLevel) bool {
	phone := strings.TrimSpace(fl.Field().String())
	if len(phone) < 7 || len(phone) > 20 {
		return false
	}
	if !phoneCharset.MatchString(phone) {
		return false
	}
	digits := digitsOnly.ReplaceAllString(phone, "")
	return len(digits) >= minPhoneDigits
}

// validTelegram accepts a 5-32 character handle of letters, digits and
// underscores, with or without a leading @.
func validTelegram(fl validator.FieldLevel) bool {
	return telegramHandle.MatchString(strings.TrimSpace(fl.Field().String()))
}

// FieldErrors converts a validator error into field-level violations. A nil
// slice means the error did not originate from schema validation.
func FieldErrors(err error) []FieldError {
	var violations validator.ValidationErrors
	if err == nil || !errors.As(err, &violations) {
		return nil
	}

	result := make([]FieldError, 0, len(violations))
	for _, violation := range violations {
		result = append(result, FieldError{
			Field:   violation.Field(),
			Message: violationMessage(violation),
		})
	}
	return result
}

func violationMessage(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", violation.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", violation.Field(), violation.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", violation.Field(), violation.Param())
	case "email":
		return "Invalid email address"
	case "lead_phone":
		return "Phone must be 7-20 characters and contain at least 7 digits"
	case "tg_handle":
		return "Telegram handle must be 5-32 characters of letters, digits or underscores"
	default:
		return fmt.Sprintf("%s is invalid", violation.Field())
	}
}

// NormalizeTelegram ensures a present handle always carries a leading @.
// An empty handle stays empty.
func NormalizeTelegram(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}
