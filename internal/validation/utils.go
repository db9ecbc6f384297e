package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates the request struct from path params, query and body.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) with field-level errors if validation fails.
//
// When validation yields a single custom error its message becomes the
// detail, so a difficulty violation reads the same as its database twin.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		message := "Invalid request payload."
		var fieldErr *echo.BindingError
		var bindErr *echo.HTTPError
		switch {
		case errors.As(err, &fieldErr):
			message = fmt.Sprintf("Invalid value for %s.", fieldErr.Field)
		case errors.As(err, &bindErr):
			message = fmt.Sprint(bindErr.Message)
		}
		return errs.NewBadRequestError(message, false, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		fieldErrors := make([]errs.FieldError, 0, len(customErrors))
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		if len(customErrors) == 1 {
			return customErrors[0].Message, fieldErrors
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "number", "numeric":
			msg = "must be a number"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
