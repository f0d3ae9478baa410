package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

// Validator collects field -> message errors. The first message per field wins.
type Validator struct {
	Errors map[string]string
	tags   map[string]string
}

func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
		tags:   make(map[string]string),
	}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	v.addError(key, "", message)
}

func (v *Validator) addError(key, tag, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.tags[key] = tag
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// HasTag reports whether any error was produced by the given struct tag rule, e.g. "required".
func (v *Validator) HasTag(tag string) bool {
	for _, t := range v.tags {
		if t == tag {
			return true
		}
	}
	return false
}

var (
	structOnce sync.Once
	structV    *playground.Validate
)

func structValidator() *playground.Validate {
	structOnce.Do(func() {
		structV = playground.New(playground.WithRequiredStructEnabled())
		structV.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return structV
}

// Struct runs `validate` struct tags and records each failure under the field's json name.
func (v *Validator) Struct(s any) {
	err := structValidator().Struct(s)
	if err == nil {
		return
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("body", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		v.addError(fe.Field(), fe.Tag(), message(fe))
	}
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not be more than %s characters", fe.Param())
		}
		return fmt.Sprintf("must not be more than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

func Unique[T comparable](values []T) bool {
	uniqueValues := make(map[T]bool)
	for _, value := range values {
		uniqueValues[value] = true
	}
	return len(values) == len(uniqueValues)
}
