// Package validate plugs go-playground/validator into echo and converts its
// failures into apperr field errors keyed by JSON path.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
)

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", validPhone)
	_ = v.RegisterValidation("notblank", notBlank)
	return &Validator{v: v}
}

// Validate checks i and returns an *apperr.Error of kind validation.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Path:    path(fe.Namespace()),
			Message: message(fe),
		})
	}
	return apperr.Validation(fields...)
}

// Var validates a single value against tag, reporting it under field.
func (cv *Validator) Var(field string, value interface{}, tag string) *apperr.FieldError {
	err := cv.v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := apperr.Field(message(verrs[0]), strings.Split(field, ".")...)
		return &fe
	}
	fe := apperr.Field("Invalid value", strings.Split(field, ".")...)
	return &fe
}

// path turns "createBillRequest.items[1].rate" into ["items", "1", "rate"].
func path(namespace string) []string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		rest = namespace
	}
	rest = indexPattern.ReplaceAllString(rest, ".$1")
	return strings.Split(rest, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "notblank":
		return "Required"
	case "email":
		return "Invalid email"
	case "phone":
		return "Phone number must have at least 10 digits"
	case "oneof":
		return fmt.Sprintf("Invalid enum value. Expected %s", strings.Join(quoteAll(strings.Fields(fe.Param())), " | "))
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("Must contain at least %s character(s)", fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
		}
		return fmt.Sprintf("Must contain at most %s character(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("Must not be before %s", fe.Param())
	default:
		return "Invalid value"
	}
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = "'" + s + "'"
	}
	return out
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// CountDigits returns the number of decimal digits in s.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validPhone(fl validator.FieldLevel) bool {
	return CountDigits(fl.Field().String()) >= 10
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
