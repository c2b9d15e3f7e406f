// Package validation holds the struct-tag rules shared by request binding and
// upstream payload checks.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TagName matches gin's binding tag so one set of struct tags serves both callers.
const TagName = "binding"

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Register installs the custom rules and JSON field naming on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("nonblank", nonBlank); err != nil {
		return fmt.Errorf("register nonblank: %w", err)
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("register isodate: %w", err)
	}
	return nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// New returns a standalone validator using the binding tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(TagName)
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func nonBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return false
		}
		elem := field.Elem()
		return elem.Kind() == reflect.String && strings.TrimSpace(elem.String()) != ""
	default:
		return false
	}
}

func isoDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := ParseDate(field.String())
	return err == nil
}

// Fields converts validator errors into path/message pairs. Paths use JSON
// names and drop the root struct, e.g. orders[0].lineItems[1].quantity.
func Fields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Path:    fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return out
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return "is required"
	case "nonblank":
		return "must not be blank"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must contain at least " + fe.Param() + " items"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date in the format " + fe.Param()
	case "isodate":
		return "must be a date (YYYY-MM-DD)"
	case "latitude", "longitude":
		return "must be a valid " + fe.Tag()
	case "excluded_with":
		return "cannot be set together with " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
