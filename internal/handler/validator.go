package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

// RequestValidator plugs go-playground/validator into echo so handlers can
// call c.Validate.  Failures come back as a service validation error with
// one violation per failed field, named after the field's JSON key.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator builds a validator that knows the notblank tag and
// reports JSON field names.  It panics if the custom tag cannot be
// registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic("register notblank validation: " + err.Error())
	}
	return &RequestValidator{v: v}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	violations := make([]service.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, service.Violation{Field: fe.Field(), Message: messageFor(fe)})
	}
	return service.NewValidationError(violations...)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return service.MsgNotBlank
	case "required":
		return service.MsgNotNull
	case "min", "gte":
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			return service.MsgMin(n)
		}
	}
	return "is invalid"
}
