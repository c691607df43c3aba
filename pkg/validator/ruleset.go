package validator

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Rules maps field names to pipe-separated rule strings:
//
//	validator.Rules{
//	    "email":    "required|email",
//	    "password": "required|min:8|confirmed",
//	    "age":      "integer|min:18",
//	}
//
// Rule parameters follow a colon, multiple parameters are comma-separated
// (e.g. "in:draft,published"). Because "|" separates rules, regex patterns
// containing pipes cannot be expressed in this syntax.
type Rules map[string]string

var alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// dateLayouts are the accepted formats for the date rule.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ValidateMap checks string form data against the given rule set and returns
// the failures as ValidationErrors. Fields are checked in alphabetical order,
// rules within a field in declaration order. Apart from required, rules only
// apply to non-empty values, so "email" alone accepts a missing field while
// "required|email" does not.
//
// A malformed rule set (unknown rule name, bad parameter) is a programmer
// error and comes back as a plain error, not as ValidationErrors.
func ValidateMap(data map[string]string, rules Rules) error {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var errs ValidationErrors
	for _, field := range fields {
		spec := rules[field]
		if spec == "" {
			continue
		}
		fieldErrs, err := checkField(field, data[field], spec, data)
		if err != nil {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkField(field, value, spec string, data map[string]string) (ValidationErrors, error) {
	tokens := strings.Split(spec, "|")

	// min/max/size/between compare numerically when the field is declared
	// numeric, by character count otherwise.
	isNumeric := false
	for _, token := range tokens {
		name, _, _ := strings.Cut(token, ":")
		if name == "numeric" || name == "integer" {
			isNumeric = true
		}
	}

	var errs ValidationErrors
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, param, _ := strings.Cut(token, ":")

		switch name {
		case "required":
			if value == "" {
				errs = append(errs, ValidationError{
					Field:             field,
					Message:           fmt.Sprintf("The %s field is required.", field),
					TranslationKey:    "validation.required",
					TranslationValues: map[string]any{"field": field},
				})
			}
		case "nullable", "sometimes":
			// Presence modifiers with no check of their own.
		default:
			if value == "" {
				continue
			}
			verr, ok, err := checkRule(field, value, name, param, isNumeric, data)
			if err != nil {
				return nil, err
			}
			if !ok {
				errs = append(errs, verr)
			}
		}
	}
	return errs, nil
}

// checkRule evaluates a single non-required rule against a non-empty value.
// The returned error signals a malformed rule, not a validation failure.
func checkRule(field, value, name, param string, isNumeric bool, data map[string]string) (ValidationError, bool, error) {
	simple := func(ok bool, message, key string) (ValidationError, bool, error) {
		return ValidationError{
			Field:             field,
			Message:           message,
			TranslationKey:    key,
			TranslationValues: map[string]any{"field": field},
		}, ok, nil
	}

	switch name {
	case "email":
		return simple(checkVar(value, "email"),
			fmt.Sprintf("The %s must be a valid email address.", field), "validation.email")
	case "url":
		return simple(checkVar(value, "url"),
			fmt.Sprintf("The %s must be a valid URL.", field), "validation.url")
	case "uuid":
		return simple(checkVar(value, "uuid"),
			fmt.Sprintf("The %s must be a valid UUID.", field), "validation.uuid")
	case "alpha":
		return simple(checkVar(value, "alpha"),
			fmt.Sprintf("The %s must only contain letters.", field), "validation.alpha")
	case "alpha_num":
		return simple(checkVar(value, "alphanum"),
			fmt.Sprintf("The %s must only contain letters and numbers.", field), "validation.alpha_num")
	case "alpha_dash":
		return simple(alphaDashPattern.MatchString(value),
			fmt.Sprintf("The %s must only contain letters, numbers, dashes, and underscores.", field), "validation.alpha_dash")
	case "numeric":
		_, err := strconv.ParseFloat(value, 64)
		return simple(err == nil,
			fmt.Sprintf("The %s must be a number.", field), "validation.numeric")
	case "integer":
		_, err := strconv.ParseInt(value, 10, 64)
		return simple(err == nil,
			fmt.Sprintf("The %s must be an integer.", field), "validation.integer")
	case "boolean":
		return simple(slices.Contains([]string{"1", "0", "true", "false"}, value),
			fmt.Sprintf("The %s must be true or false.", field), "validation.boolean")
	case "accepted":
		return simple(slices.Contains([]string{"yes", "on", "1", "true"}, value),
			fmt.Sprintf("The %s must be accepted.", field), "validation.accepted")
	case "date":
		ok := false
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				ok = true
				break
			}
		}
		return simple(ok,
			fmt.Sprintf("The %s must be a valid date.", field), "validation.date")
	case "confirmed":
		return simple(data[field+"_confirmation"] == value,
			fmt.Sprintf("The %s confirmation does not match.", field), "validation.confirmed")
	case "same":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s and %s must match.", field, param),
			TranslationKey:    "validation.same",
			TranslationValues: map[string]any{"field": field, "other": param},
		}, data[param] == value, nil
	case "different":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s and %s must be different.", field, param),
			TranslationKey:    "validation.different",
			TranslationValues: map[string]any{"field": field, "other": param},
		}, data[param] != value, nil
	case "in":
		return simple(slices.Contains(strings.Split(param, ","), value),
			fmt.Sprintf("The selected %s is invalid.", field), "validation.in")
	case "not_in":
		return simple(!slices.Contains(strings.Split(param, ","), value),
			fmt.Sprintf("The selected %s is invalid.", field), "validation.not_in")
	case "starts_with":
		ok := slices.ContainsFunc(strings.Split(param, ","), func(prefix string) bool {
			return strings.HasPrefix(value, prefix)
		})
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must start with one of the following: %s.", field, param),
			TranslationKey:    "validation.starts_with",
			TranslationValues: map[string]any{"field": field, "values": param},
		}, ok, nil
	case "ends_with":
		ok := slices.ContainsFunc(strings.Split(param, ","), func(suffix string) bool {
			return strings.HasSuffix(value, suffix)
		})
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must end with one of the following: %s.", field, param),
			TranslationKey:    "validation.ends_with",
			TranslationValues: map[string]any{"field": field, "values": param},
		}, ok, nil
	case "regex":
		pattern, err := regexp.Compile(param)
		if err != nil {
			return ValidationError{}, false, fmt.Errorf("validator: rule %q: invalid pattern: %w", name, err)
		}
		return simple(pattern.MatchString(value),
			fmt.Sprintf("The %s format is invalid.", field), "validation.regex")
	case "min":
		return boundRule(field, value, name, param, isNumeric)
	case "max":
		return boundRule(field, value, name, param, isNumeric)
	case "size":
		return boundRule(field, value, name, param, isNumeric)
	case "between":
		lo, hi, found := strings.Cut(param, ",")
		if !found {
			return ValidationError{}, false, fmt.Errorf("validator: rule %q needs two parameters, got %q", name, param)
		}
		loErr, loOK, err := boundRule(field, value, "min", lo, isNumeric)
		if err != nil {
			return ValidationError{}, false, err
		}
		hiErr, hiOK, err := boundRule(field, value, "max", hi, isNumeric)
		if err != nil {
			return ValidationError{}, false, err
		}
		verr := ValidationError{
			Field:          field,
			TranslationKey: "validation.between",
			TranslationValues: map[string]any{
				"field": field,
				"min":   loErr.TranslationValues["min"],
				"max":   hiErr.TranslationValues["max"],
			},
		}
		if isNumeric {
			verr.Message = fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
		} else {
			verr.Message = fmt.Sprintf("The %s must be between %s and %s characters long.", field, lo, hi)
			verr.TranslationKey = "validation.between_length"
		}
		return verr, loOK && hiOK, nil
	default:
		return ValidationError{}, false, fmt.Errorf("validator: unknown rule %q", name)
	}
}

// boundRule handles min, max, and size, comparing numerically for numeric
// fields and by rune count otherwise.
func boundRule(field, value, name, param string, isNumeric bool) (ValidationError, bool, error) {
	if isNumeric {
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return ValidationError{}, false, fmt.Errorf("validator: rule %q: invalid parameter %q", name, param)
		}
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			// The numeric/integer rule reports the malformed value itself.
			return ValidationError{}, true, nil
		}
		switch name {
		case "min":
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be at least %s.", field, param),
				TranslationKey:    "validation.min",
				TranslationValues: map[string]any{"field": field, "min": numericParam(param)},
			}, num >= bound, nil
		case "max":
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must not exceed %s.", field, param),
				TranslationKey:    "validation.max",
				TranslationValues: map[string]any{"field": field, "max": numericParam(param)},
			}, num <= bound, nil
		default:
			return ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("The %s must be exactly %s.", field, param),
				TranslationKey:    "validation.size",
				TranslationValues: map[string]any{"field": field, "size": numericParam(param)},
			}, num == bound, nil
		}
	}

	bound, err := strconv.Atoi(param)
	if err != nil {
		return ValidationError{}, false, fmt.Errorf("validator: rule %q: invalid parameter %q", name, param)
	}
	length := utf8.RuneCountInString(value)
	switch name {
	case "min":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be at least %d characters long.", field, bound),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": bound},
		}, length >= bound, nil
	case "max":
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must not exceed %d characters.", field, bound),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": bound},
		}, length <= bound, nil
	default:
		return ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("The %s must be exactly %d characters long.", field, bound),
			TranslationKey:    "validation.exact_length",
			TranslationValues: map[string]any{"field": field, "length": bound},
		}, length == bound, nil
	}
}
