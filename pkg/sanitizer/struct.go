package sanitizer

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
)

// ErrInvalidTarget indicates SanitizeStruct received something other than
// a non-nil struct pointer.
var ErrInvalidTarget = errors.New("sanitizer: target must be a non-nil struct pointer")

const tagName = "sanitize"

// SanitizeStruct cleans every exported string field of the struct v points
// to, in place. Fields without a sanitize tag are trimmed of surrounding
// whitespace. A tag lists comma-separated directives applied in order:
//
//	trim    remove surrounding whitespace
//	lower   convert to lowercase
//	upper   convert to uppercase
//	email   trim and lowercase
//	strip   remove all HTML, keep plain text
//	html    keep safe formatting tags only
//	escape  HTML-escape special characters
//
// Use `sanitize:"-"` to leave a field untouched, e.g. passwords where
// surrounding whitespace is significant. Nested structs, pointers, and
// slices are walked recursively.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	return sanitizeStruct(rv)
}

func sanitizeStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		if err := sanitizeValue(rv.Field(i), tag); err != nil {
			return fmt.Errorf("sanitizer: field %s: %w", field.Name, err)
		}
	}
	return nil
}

func sanitizeValue(fv reflect.Value, tag string) error {
	switch fv.Kind() {
	case reflect.String:
		if !fv.CanSet() {
			return nil
		}
		cleaned, err := applyDirectives(fv.String(), tag)
		if err != nil {
			return err
		}
		fv.SetString(cleaned)
	case reflect.Pointer:
		if fv.IsNil() {
			return nil
		}
		return sanitizeValue(fv.Elem(), tag)
	case reflect.Struct:
		return sanitizeStruct(fv)
	case reflect.Slice, reflect.Array:
		for i := range fv.Len() {
			if err := sanitizeValue(fv.Index(i), tag); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyDirectives(s, tag string) (string, error) {
	if tag == "" {
		return strings.TrimSpace(s), nil
	}
	for directive := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(directive) {
		case "trim":
			s = strings.TrimSpace(s)
		case "lower":
			s = strings.ToLower(s)
		case "upper":
			s = strings.ToUpper(s)
		case "email":
			s = strings.ToLower(strings.TrimSpace(s))
		case "strip":
			s = StripHTML(s)
		case "html":
			s = SanitizeHTML(s)
		case "escape":
			s = html.EscapeString(s)
		case "":
		default:
			return "", fmt.Errorf("unknown directive %q", directive)
		}
	}
	return s, nil
}
