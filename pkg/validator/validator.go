package validator

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError describes a single failed check on a single field.
// TranslationKey and TranslationValues carry enough information to rebuild
// the message in another language via Translate.
type ValidationError struct {
	Field             string         `json:"field"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"translation_key,omitempty"`
	TranslationValues map[string]any `json:"translation_values,omitempty"`
}

// ValidationErrors is an ordered collection of validation errors.
// It implements the error interface so it can travel through normal
// error-returning call chains.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Field + ": " + err.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TranslateFunc renders a translation key with placeholder values into a
// localized message. i18n.Translator.TranslateMessage satisfies this.
type TranslateFunc func(key string, values map[string]any) string

// Translate rewrites each error's Message in-place using fn. Errors without a
// TranslationKey keep their original message. A nil fn is a no-op, so callers
// can pass through an optional translator unconditionally.
func (e ValidationErrors) Translate(fn TranslateFunc) {
	if fn == nil {
		return
	}
	for i := range e {
		if e[i].TranslationKey == "" {
			continue
		}
		e[i].Message = fn(e[i].TranslationKey, e[i].TranslationValues)
	}
}

// Get returns all messages recorded for the given field.
func (e ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, err := range e {
		if err.Field == field {
			msgs = append(msgs, err.Message)
		}
	}
	return msgs
}

// GetErrors returns the full error records for the given field.
func (e ValidationErrors) GetErrors(field string) []ValidationError {
	var out []ValidationError
	for _, err := range e {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

// First returns the first message recorded for the given field, or "" when
// the field has no errors.
func (e ValidationErrors) First(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Has reports whether the given field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Any reports whether the collection contains any errors.
func (e ValidationErrors) Any() bool {
	return len(e) > 0
}

// Fields returns the distinct field names that have errors, in first-seen
// order.
func (e ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool, len(e))
	for _, err := range e {
		if !seen[err.Field] {
			seen[err.Field] = true
			fields = append(fields, err.Field)
		}
	}
	return fields
}

// ToMap converts the collection to a field-to-messages map, the shape used
// by JSON error payloads and session flashes.
func (e ValidationErrors) ToMap() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, err := range e {
		out[err.Field] = append(out[err.Field], err.Message)
	}
	return out
}

// Apply evaluates the given rules in order and returns the collected
// failures as a ValidationErrors error, or nil when every rule passed.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Valid {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsValidationError reports whether err carries ValidationErrors, as opposed
// to an infrastructure failure that should not be shown to end users.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors unwraps err into ValidationErrors. Returns nil when
// err does not carry validation errors.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// ErrorsFromMessages rebuilds a collection from a field-to-messages map as
// produced by ToMap.
func ErrorsFromMessages(m map[string][]string) ValidationErrors {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out ValidationErrors
	for _, field := range fields {
		for _, msg := range m[field] {
			out = append(out, ValidationError{Field: field, Message: msg})
		}
	}
	return out
}

// ErrorsFromMap rebuilds a collection from a loosely typed field map, the
// shape a ToMap result takes after a JSON round trip through a session
// store. Values may be strings, string slices, or []any of strings.
func ErrorsFromMap(m map[string]any) ValidationErrors {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out ValidationErrors
	for _, field := range fields {
		switch v := m[field].(type) {
		case string:
			out = append(out, ValidationError{Field: field, Message: v})
		case []string:
			for _, msg := range v {
				out = append(out, ValidationError{Field: field, Message: msg})
			}
		case []any:
			for _, item := range v {
				if msg, ok := item.(string); ok {
					out = append(out, ValidationError{Field: field, Message: msg})
				}
			}
		}
	}
	return out
}
