package internal

import "strconv"

// scalar covers the types route and query parameters can convert to.
type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue retrieves a typed value stored on the request context,
// returning the zero value on a miss or type mismatch.
func ContextValue[T any](c *Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param retrieves a typed route parameter. Unparseable values collapse to
// the zero value.
func Param[T scalar](c *Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query retrieves a typed query parameter.
func Query[T scalar](c *Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault retrieves a typed query parameter, substituting fallback
// when the parameter is absent, empty, or unparseable.
func QueryDefault[T scalar](c *Context, name string, fallback T) T {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	if v, ok := parseScalar[T](raw); ok {
		return v
	}
	return fallback
}

func parseScalar[T scalar](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		if v, err := strconv.Atoi(raw); err == nil {
			return any(v).(T), true
		}
	case int64:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return any(v).(T), true
		}
	case float64:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return any(v).(T), true
		}
	case bool:
		if v, err := strconv.ParseBool(raw); err == nil {
			return any(v).(T), true
		}
	}
	return zero, false
}
