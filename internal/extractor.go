package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource pulls a value out of the request.
// Returns ("", false) when the source has nothing to offer.
type ExtractorSource = func(*Context) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value among the sources, or
// ("", false) when every source misses.
func (e Extractor) Extract(c *Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// nonEmpty adapts a plain getter into an ExtractorSource that treats the
// empty string as a miss.
func nonEmpty(get func(*Context) string) ExtractorSource {
	return func(c *Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string { return c.Header(name) })
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string { return c.Query(name) })
}

// FromParam reads a route parameter.
func FromParam(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string { return c.Param(name) })
}

// FromForm reads a form field.
func FromForm(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string { return c.Form(name) })
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string {
		v, _ := c.Cookie(name)
		return v
	})
}

// FromCookieSigned reads a signed cookie; tampered values count as a miss.
func FromCookieSigned(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string {
		v, _ := c.CookieSigned(name)
		return v
	})
}

// FromCookieEncrypted reads an encrypted cookie.
func FromCookieEncrypted(name string) ExtractorSource {
	return nonEmpty(func(c *Context) string {
		v, _ := c.CookieEncrypted(name)
		return v
	})
}

// FromSession reads a session value, stringified via fmt.Sprint when the
// stored value is not already a string.
func FromSession(key string) ExtractorSource {
	return nonEmpty(func(c *Context) string {
		sess := c.Session()
		if sess == nil {
			return ""
		}
		val, ok := sess.GetValue(key)
		if !ok || val == nil {
			return ""
		}
		if s, ok := val.(string); ok {
			return s
		}
		return fmt.Sprint(val)
	})
}

// FromBearerToken reads the token from an "Authorization: Bearer ..."
// header. The scheme comparison is case-insensitive.
func FromBearerToken() ExtractorSource {
	return nonEmpty(func(c *Context) string {
		auth := c.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return ""
		}
		return auth[7:]
	})
}
