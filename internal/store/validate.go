package store

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{6,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if id, ok := field.Interface().(uuid.UUID); ok && id != uuid.Nil {
			return id.String()
		}
		return ""
	}, uuid.UUID{})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldErrors collects per-field validation messages, first message wins
type fieldErrors map[string]string

// fieldsOf runs the struct's validate tags and returns one message per
// failing field, keyed by its json path (e.g. "items[0].quantity").
func fieldsOf(in interface{}) fieldErrors {
	f := fieldErrors{}

	err := validate.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return f
	}
	for _, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		f.add(key, message(fe))
	}
	return f
}

func message(fe validator.FieldError) string {
	name := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return name + " required"
	case "email":
		return "invalid email"
	case "phone":
		return "invalid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%s must have at least %s entries", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s entries", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) check(ok bool, field, msg string) {
	if !ok {
		f.add(field, msg)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
