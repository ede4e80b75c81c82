// File: internal/form/validator.go

// Package form holds the submitted admin forms and turns validation
// failures into per-field messages.
package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldError is one message attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field errors.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// For returns the messages of field, in order.
func (e Errors) For(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// NewValidator 回傳以表單欄位名稱回報錯誤的 validator，
// 並註冊 notblank 與 int32min 兩個自訂標籤。
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("int32min", int32Min)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldErrors converts the error of a Validate call into field errors.
// Errors that are not validation failures are returned as-is.
func FieldErrors(err error) (Errors, error) {
	if err == nil {
		return nil, nil
	}
	var fe Errors
	if errors.As(err, &fe) {
		return fe, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make(Errors, 0, len(ve))
	for _, e := range ve {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out, nil
}

// int32Min accepts a decimal string that fits an int32 and is at least the
// tag parameter.
func int32Min(fl validator.FieldLevel) bool {
	n, err := strconv.ParseInt(fl.Field().String(), 10, 32)
	if err != nil {
		return false
	}
	floor, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	return n >= floor
}

func int32MinMessage(e validator.FieldError) string {
	s, _ := e.Value().(string)
	if _, err := strconv.ParseInt(s, 10, 32); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return fmt.Sprintf("must be %s or more", e.Param())
			}
			return fmt.Sprintf("must be %d or less", math.MaxInt32)
		}
		return "must be a whole number"
	}
	return fmt.Sprintf("must be %s or more", e.Param())
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "must not be blank"
	case "int32min":
		return int32MinMessage(e)
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be %s or more", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be %s or less", e.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("is invalid (%s)", e.Tag())
	}
}
