// Package schema validates request and response values against the
// declarative rules in their struct tags.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mealmuse/internal/shared"
)

// Messager lets a request type supply its own human-readable message for a
// field rule. Returning "" falls back to the generic message.
type Messager interface {
	ValidationMessage(field, rule string) string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks v against its rules. It returns nil or a
// *shared.ValidationError listing every failed field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("schema: %w", err)
	}

	custom, _ := v.(Messager)
	out := &shared.ValidationError{}
	for _, fe := range verrs {
		field := fieldPath(fe)
		msg := ""
		if custom != nil {
			msg = custom.ValidationMessage(field, fe.Tag())
		}
		if msg == "" {
			msg = defaultMessage(fe)
		}
		out.Violations = append(out.Violations, shared.Violation{
			Field:   field,
			Rule:    fe.Tag(),
			Message: msg,
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so nested
// response fields read as "mealPlan.breakfast".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s).", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s item(s).", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "email":
		return "Please enter a valid email address."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed the %q rule.", fe.Tag())
	}
}
