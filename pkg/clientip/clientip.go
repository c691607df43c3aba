// Package clientip extracts the originating client IP from proxied
// requests.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// CDN headers carry a single verified address and take precedence over the
// X-Forwarded-For chain.
var singleIPHeaders = []string{"CF-Connecting-IP", "True-Client-IP", "X-Real-IP"}

// Get returns the client IP for a request, preferring proxy headers over
// the socket address. The leftmost valid X-Forwarded-For entry is treated
// as the originating client. Falls back to the RemoteAddr host; returns ""
// only when no source yields a parseable address.
func Get(r *http.Request) string {
	for _, h := range singleIPHeaders {
		if ip := parse(r.Header.Get(h)); ip != "" {
			return ip
		}
	}
	for part := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := parse(part); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := parse(host); ip != "" {
			return ip
		}
	}
	return parse(r.RemoteAddr)
}

// parse validates and normalizes a single address, stripping ports,
// brackets, and IPv6 zone identifiers.
func parse(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	value = strings.Trim(value, "[]")
	if zone := strings.IndexByte(value, '%'); zone != -1 {
		value = value[:zone]
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return ""
	}
	return ip.String()
}
