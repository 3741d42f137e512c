package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts failures into
// a domain.ValidationError keyed by field name.
func validateStruct(op, prefix string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, op, "validation failed")
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		if prefix != "" {
			field = prefix + "." + field
		}
		ve.Fields[field] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
