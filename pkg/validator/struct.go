package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	structOnce     sync.Once
	structInstance *playground.Validate
)

// instance returns the shared go-playground validator, configured to report
// fields by their json or form tag name so messages match what the client
// actually sent.
func instance() *playground.Validate {
	structOnce.Do(func() {
		v := playground.New(playground.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "query"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		structInstance = v
	})
	return structInstance
}

// checkVar validates a single value against a go-playground tag expression.
func checkVar(value any, tag string) bool {
	return instance().Var(value, tag) == nil
}

// ValidateStruct validates v against its `validate` struct tags and returns
// the failures as ValidationErrors. Non-validation failures (for example,
// passing a non-struct) come back as a plain error.
func ValidateStruct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *playground.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validator: %w", invalid)
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validator: %w", err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fromFieldError(fe))
	}
	return out
}

// fromFieldError maps a go-playground field error onto the framework's
// message and translation-key conventions.
func fromFieldError(fe playground.FieldError) ValidationError {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is required.", field),
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		}
	case "email":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a valid email address.", field),
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		}
	case "url":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a valid URL.", field),
			TranslationKey:    "validation.url",
			TranslationValues: map[string]any{"field": field},
		}
	case "min":
		n := numericParam(param)
		switch kindClass(fe.Kind()) {
		case classString:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be at least %v characters long.", field, n),
				TranslationKey:    "validation.min_length",
				TranslationValues: map[string]any{"field": field, "min": n},
			}
		case classCollection:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must contain at least %v items.", field, n),
				TranslationKey:    "validation.min_items",
				TranslationValues: map[string]any{"field": field, "min": n},
			}
		default:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be at least %v.", field, n),
				TranslationKey:    "validation.min",
				TranslationValues: map[string]any{"field": field, "min": n},
			}
		}
	case "max":
		n := numericParam(param)
		switch kindClass(fe.Kind()) {
		case classString:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must not exceed %v characters.", field, n),
				TranslationKey:    "validation.max_length",
				TranslationValues: map[string]any{"field": field, "max": n},
			}
		case classCollection:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must not contain more than %v items.", field, n),
				TranslationKey:    "validation.max_items",
				TranslationValues: map[string]any{"field": field, "max": n},
			}
		default:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must not exceed %v.", field, n),
				TranslationKey:    "validation.max",
				TranslationValues: map[string]any{"field": field, "max": n},
			}
		}
	case "len":
		n := numericParam(param)
		switch kindClass(fe.Kind()) {
		case classString:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be exactly %v characters long.", field, n),
				TranslationKey:    "validation.exact_length",
				TranslationValues: map[string]any{"field": field, "length": n},
			}
		case classCollection:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must contain exactly %v items.", field, n),
				TranslationKey:    "validation.exact_items",
				TranslationValues: map[string]any{"field": field, "count": n},
			}
		default:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be exactly %v.", field, n),
				TranslationKey:    "validation.size",
				TranslationValues: map[string]any{"field": field, "size": n},
			}
		}
	case "gte":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be at least %v.", field, param),
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"field": field, "min": numericParam(param)},
		}
	case "lte":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must not exceed %v.", field, param),
			TranslationKey:    "validation.max",
			TranslationValues: map[string]any{"field": field, "max": numericParam(param)},
		}
	case "oneof":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The selected %s is invalid.", field),
			TranslationKey:    "validation.in",
			TranslationValues: map[string]any{"field": field},
		}
	case "eqfield":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s confirmation does not match.", field),
			TranslationKey:    "validation.confirmed",
			TranslationValues: map[string]any{"field": field},
		}
	case "alpha":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must only contain letters.", field),
			TranslationKey:    "validation.alpha",
			TranslationValues: map[string]any{"field": field},
		}
	case "alphanum":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must only contain letters and numbers.", field),
			TranslationKey:    "validation.alpha_num",
			TranslationValues: map[string]any{"field": field},
		}
	case "numeric":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a number.", field),
			TranslationKey:    "validation.numeric",
			TranslationValues: map[string]any{"field": field},
		}
	case "uuid", "uuid4":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a valid UUID.", field),
			TranslationKey:    "validation.uuid",
			TranslationValues: map[string]any{"field": field},
		}
	default:
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is invalid.", field),
			TranslationKey:    "validation." + fe.Tag(),
			TranslationValues: map[string]any{"field": field},
		}
	}
}

type sizeClass int

const (
	classNumeric sizeClass = iota
	classString
	classCollection
)

// kindClass groups reflect kinds into the three families min/max/len care
// about: numeric comparison, character length, and element count.
func kindClass(k reflect.Kind) sizeClass {
	switch k {
	case reflect.String:
		return classString
	case reflect.Slice, reflect.Array, reflect.Map:
		return classCollection
	default:
		return classNumeric
	}
}

// numericParam converts a tag parameter to int when possible so translation
// values hold numbers rather than strings.
func numericParam(param string) any {
	if n, err := strconv.Atoi(param); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(param, 64); err == nil {
		return f
	}
	return param
}
