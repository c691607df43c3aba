package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag, leaving plain text only.
var strict = sync.OnceValue(bluemonday.StrictPolicy)

// safe keeps the formatting subset user-generated content may carry:
// paragraphs, emphasis, lists, code, quotes, and nofollow links.
var safe = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements(
		"p", "br",
		"strong", "b", "em", "i",
		"ul", "ol", "li",
		"code", "pre", "blockquote",
	)
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	return p
})

// StripHTML removes all HTML and returns plain text. Script and style
// elements disappear together with their contents.
func StripHTML(s string) string {
	return strict().Sanitize(s)
}

// SanitizeHTML keeps basic formatting tags and drops everything dangerous:
// scripts, event handlers, javascript: URLs, frames.
func SanitizeHTML(s string) string {
	return safe().Sanitize(s)
}

// SanitizeHTMLCustom applies a caller-supplied bluemonday policy.
// A nil policy passes the input through untouched.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
