// Package binder populates structs from HTTP request data.
//
// Three binders cover the common request shapes:
//
//	binder.Form()  form bodies (urlencoded and multipart), tag "form"
//	binder.Query() URL query parameters, tag "query"
//	binder.JSON()  JSON request bodies, tag "json"
//
// Form and query binding use reflection over exported struct fields,
// matching values by tag name or, when untagged, by field name. Supported
// field types: strings, booleans, integers, unsigned integers, floats,
// time.Time, time.Duration, plus pointers and slices of those.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTarget indicates the bind target is not a non-nil struct
	// pointer.
	ErrInvalidTarget = errors.New("binder: target must be a non-nil struct pointer")

	// ErrUnsupportedType indicates a struct field has a type the binder
	// cannot populate from a string value.
	ErrUnsupportedType = errors.New("binder: unsupported field type")
)

// multipartMaxMemory bounds the in-memory portion of multipart parsing;
// larger files spill to disk.
const multipartMaxMemory = 32 << 20

// Form returns a binder for form-encoded request bodies. Query parameters
// merge in per net/http ParseForm semantics. Fields bind by their form tag.
func Form() func(*http.Request, any) error {
	return func(r *http.Request, v any) error {
		if r.Form == nil {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
					return fmt.Errorf("binder: parse multipart form: %w", err)
				}
			} else if err := r.ParseForm(); err != nil {
				return fmt.Errorf("binder: parse form: %w", err)
			}
		}
		return bindValues(r.Form, v, "form")
	}
}

// Query returns a binder for URL query parameters. Fields bind by their
// query tag.
func Query() func(*http.Request, any) error {
	return func(r *http.Request, v any) error {
		return bindValues(r.URL.Query(), v, "query")
	}
}

// JSON returns a binder that decodes the request body. An empty body binds
// nothing and returns nil, leaving validation to report missing fields.
func JSON() func(*http.Request, any) error {
	return func(r *http.Request, v any) error {
		if r.Body == nil {
			return nil
		}
		err := json.NewDecoder(r.Body).Decode(v)
		if err == nil || errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("binder: decode json: %w", err)
	}
}

func bindValues(values url.Values, v any, tag string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field, tag)
		if name == "-" {
			continue
		}
		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setField(rv.Field(i), vals); err != nil {
			return fmt.Errorf("binder: field %s: %w", field.Name, err)
		}
	}
	return nil
}

func fieldName(field reflect.StructField, tag string) string {
	if value := field.Tag.Get(tag); value != "" {
		name, _, _ := strings.Cut(value, ",")
		if name != "" {
			return name
		}
	}
	return field.Name
}

func setField(fv reflect.Value, vals []string) error {
	switch fv.Kind() {
	case reflect.Pointer:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return setField(fv.Elem(), vals)
	case reflect.Slice:
		out := reflect.MakeSlice(fv.Type(), len(vals), len(vals))
		for i, val := range vals {
			if err := setScalar(out.Index(i), val); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil
	default:
		return setScalar(fv, vals[0])
	}
}

func setScalar(fv reflect.Value, val string) error {
	// Empty submissions leave non-string fields at their zero value, the
	// way an empty form input means "not provided".
	if val == "" && fv.Kind() != reflect.String {
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(val)
	case reflect.Bool:
		// Checkboxes submit "on" when checked.
		if val == "on" {
			fv.SetBool(true)
			return nil
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parse bool %q: %w", val, err)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fv.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("parse duration %q: %w", val, err)
			}
			fv.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(val, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int %q: %w", val, err)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(val, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse uint %q: %w", val, err)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(val, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse float %q: %w", val, err)
		}
		fv.SetFloat(n)
	case reflect.Struct:
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			t, err := parseTime(val)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	}
	return nil
}

// timeLayouts covers RFC 3339 plus what HTML date and datetime-local
// inputs submit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(val string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognized format", val)
}
