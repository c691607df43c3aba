package htmx

import "net/http"

// IsHTMX reports whether an htmx element issued the request.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}

// IsBoosted reports whether the request came through an hx-boost link or
// form rather than an explicit hx-* attribute.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderHXBoosted) == "true"
}
