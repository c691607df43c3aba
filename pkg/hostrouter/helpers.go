package hostrouter

import (
	"net/http"
	"strings"
)

// GetDomain returns the request host lowercased and without a port.
// Bracketed IPv6 literals keep their brackets: "[::1]:8080" becomes "[::1]".
func GetDomain(r *http.Request) string {
	return normalizeHost(r.Host)
}

// GetSubdomain returns the labels in front of baseDomain, or "" when the
// host equals baseDomain or belongs to a different domain entirely.
//
//	GetSubdomain(req, "example.com") // "acme.example.com"    -> "acme"
//	GetSubdomain(req, "example.com") // "eu.acme.example.com" -> "eu.acme"
//	GetSubdomain(req, "example.com") // "example.com"         -> ""
func GetSubdomain(r *http.Request, baseDomain string) string {
	host := normalizeHost(r.Host)
	sub, found := strings.CutSuffix(host, "."+strings.ToLower(baseDomain))
	if !found {
		return ""
	}
	return sub
}

// normalizeHost lowercases host and strips a trailing ":port". A colon
// followed by "]" sits inside an IPv6 literal and is left alone.
func normalizeHost(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.ToLower(host)
}
