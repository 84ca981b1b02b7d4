package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names come from json tags so
// error paths match request bodies.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks v against its validate tags and returns a *ValidationError
// listing every failing field, or nil.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return FromValidator(verrs)
}

// FromValidator converts validator errors into field errors
func FromValidator(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		param := fieldPath(fe.Namespace())
		out.Errors = append(out.Errors, FieldError{Param: param, Msg: fieldMessage(param, fe)})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(param string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return param + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "at least " + fe.Param() + " " + param + " required"
		}
		return fmt.Sprintf("%s must be at least %s", param, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", param, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", param, fe.Param())
	case "oneof":
		return param + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return param + " must be a valid email"
	default:
		return param + " is invalid"
	}
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}
