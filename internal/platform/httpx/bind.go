package httpx

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds the validator used for request DTOs. Field names in
// validation errors follow the json tag so clients see wire names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind decodes the JSON body into dst and validates it. Failures come back
// as a ValidationFailed error carrying the per-field detail array.
func Bind(r *http.Request, v *validator.Validate, dst any) *Error {
	if err := DecodeJSON(r, dst); err != nil {
		return ValidationFailed([]FieldError{{Param: "body", Msg: "invalid JSON body"}})
	}
	return Validate(v, dst)
}

// Validate runs struct validation and converts failures to the envelope
// errors shape.
func Validate(v *validator.Validate, dst any) *Error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationFailed([]FieldError{{Param: "body", Msg: "invalid request"}})
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Param: fe.Field(),
			Msg:   fieldMessage(fe),
		})
	}
	return ValidationFailed(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation on '%s'", fe.Tag())
	}
}
