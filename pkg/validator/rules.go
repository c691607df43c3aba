package validator

import (
	"fmt"
	"regexp"
	"slices"
	"unicode/utf8"
)

// Rule pairs an eagerly evaluated check result with the error to report on
// failure. Construct rules with the helper functions below and collect the
// failures with Apply.
type Rule struct {
	Valid bool
	Error ValidationError
}

// number covers the built-in numeric types accepted by the numeric rule
// constructors.
type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// RequiredString fails when value is empty.
func RequiredString(field, value string) Rule {
	return Rule{
		Valid: value != "",
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is required.", field),
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// RequiredSlice fails when value has no elements.
func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Valid: len(value) > 0,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is required.", field),
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// RequiredMap fails when value has no entries.
func RequiredMap[K comparable, V any](field string, value map[K]V) Rule {
	return Rule{
		Valid: len(value) > 0,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is required.", field),
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// RequiredNum fails when value is zero.
func RequiredNum[T number](field string, value T) Rule {
	return Rule{
		Valid: value != 0,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s field is required.", field),
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLenString fails when value is shorter than min characters.
// Length is measured in runes, not bytes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Valid: utf8.RuneCountInString(value) >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be at least %d characters long.", field, min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLenString fails when value is longer than max characters.
// Length is measured in runes, not bytes.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Valid: utf8.RuneCountInString(value) <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must not exceed %d characters.", field, max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// LenString fails when value is not exactly length characters long.
// Length is measured in runes, not bytes.
func LenString(field, value string, length int) Rule {
	return Rule{
		Valid: utf8.RuneCountInString(value) == length,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be exactly %d characters long.", field, length),
			TranslationKey:    "validation.exact_length",
			TranslationValues: map[string]any{"field": field, "length": length},
		},
	}
}

// MinNum fails when value is below min.
func MinNum[T number](field string, value, min T) Rule {
	return Rule{
		Valid: value >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be at least %v.", field, min),
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxNum fails when value exceeds max.
func MaxNum[T number](field string, value, max T) Rule {
	return Rule{
		Valid: value <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must not exceed %v.", field, max),
			TranslationKey:    "validation.max",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// MinLenSlice fails when value has fewer than min elements.
func MinLenSlice[T any](field string, value []T, min int) Rule {
	return Rule{
		Valid: len(value) >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must contain at least %d items.", field, min),
			TranslationKey:    "validation.min_items",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLenSlice fails when value has more than max elements.
func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Valid: len(value) <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must not contain more than %d items.", field, max),
			TranslationKey:    "validation.max_items",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// LenSlice fails when value does not have exactly count elements.
func LenSlice[T any](field string, value []T, count int) Rule {
	return Rule{
		Valid: len(value) == count,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must contain exactly %d items.", field, count),
			TranslationKey:    "validation.exact_items",
			TranslationValues: map[string]any{"field": field, "count": count},
		},
	}
}

// Email fails when value is not a valid email address. Empty values pass;
// combine with RequiredString to forbid them.
func Email(field, value string) Rule {
	return Rule{
		Valid: value == "" || checkVar(value, "email"),
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a valid email address.", field),
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// URL fails when value is not a valid absolute URL. Empty values pass.
func URL(field, value string) Rule {
	return Rule{
		Valid: value == "" || checkVar(value, "url"),
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be a valid URL.", field),
			TranslationKey:    "validation.url",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// InList fails when value is not one of the allowed values.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Valid: slices.Contains(allowed, value),
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The selected %s is invalid.", field),
			TranslationKey:    "validation.in",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// Matches fails when value does not match the given pattern. Empty values
// pass; combine with RequiredString to forbid them.
func Matches(field, value string, pattern *regexp.Regexp) Rule {
	return Rule{
		Valid: value == "" || pattern.MatchString(value),
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s format is invalid.", field),
			TranslationKey:    "validation.regex",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
