package internal

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strings"
)

// StatusPageExpired is the status CSRF protection answers with when the
// submitted token does not match the session token. Not part of net/http.
const StatusPageExpired = 419

// Response is the outbound value carrier produced by dispatch. It holds the
// fully materialized status, headers, cookies, and body; nothing is written
// to the wire until the App hands it to an http.ResponseWriter. Middleware
// and tests inspect Responses directly.
type Response struct {
	header  http.Header
	body    []byte
	cookies []*http.Cookie
	status  int
}

// NewResponse creates a Response with the given status and body. The caller
// is expected to set a Content-Type; the convenience constructors below do.
func NewResponse(status int, body []byte) *Response {
	return &Response{
		status: status,
		header: make(http.Header),
		body:   body,
	}
}

// HTMLResponse wraps markup in a text/html response.
func HTMLResponse(status int, body string) *Response {
	r := NewResponse(status, []byte(body))
	r.header.Set("Content-Type", "text/html; charset=utf-8")
	return r
}

// TextResponse wraps plain text in a text/plain response.
func TextResponse(status int, body string) *Response {
	r := NewResponse(status, []byte(body))
	r.header.Set("Content-Type", "text/plain; charset=utf-8")
	return r
}

// JSONResponse marshals v into an application/json response.
func JSONResponse(status int, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("anvil: encode json response: %w", err)
	}
	r := NewResponse(status, b)
	r.header.Set("Content-Type", "application/json")
	return r, nil
}

// RedirectResponse produces a Location redirect. Status defaults to 302 when
// the given code is not a redirect code.
func RedirectResponse(status int, location string) *Response {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		status = http.StatusFound
	}
	r := NewResponse(status, nil)
	r.header.Set("Location", location)
	return r
}

// NoContentResponse produces an empty 204 response.
func NoContentResponse() *Response {
	return NewResponse(http.StatusNoContent, nil)
}

// StatusCode returns the response status.
func (r *Response) StatusCode() int { return r.status }

// Body returns the response body bytes.
func (r *Response) Body() []byte { return r.body }

// Header returns the mutable header map.
func (r *Response) Header() http.Header { return r.header }

// Cookies returns the cookies queued on this response.
func (r *Response) Cookies() []*http.Cookie { return r.cookies }

// WithHeader sets a header and returns the same Response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

// WithCookie queues a cookie to be sent with the response.
func (r *Response) WithCookie(c *http.Cookie) *Response {
	r.cookies = append(r.cookies, c)
	return r
}

// write sends the response over the wire. Headers and cookies go first, then
// the status line, then the body.
func (r *Response) write(w http.ResponseWriter) error {
	for key, values := range r.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	if _, err := w.Write(r.body); err != nil {
		return fmt.Errorf("anvil: write response body: %w", err)
	}
	return nil
}

const errorPageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%d | %s</title>
<style>
html,body{margin:0;height:100%%;font-family:ui-sans-serif,system-ui,sans-serif;color:#1a202c}
.wrap{display:flex;align-items:center;justify-content:center;height:100%%}
.code{padding-right:1rem;margin-right:1rem;border-right:1px solid #cbd5e0;font-size:1.5rem;font-weight:500}
.text{font-size:1rem;color:#718096;text-transform:uppercase;letter-spacing:.05em}
</style>
</head>
<body>
<div class="wrap"><div class="code">%d</div><div class="text">%s</div></div>
</body>
</html>`

// statusPage renders the framework's standard minimal error page for a
// status code, e.g. "404 | NOT FOUND".
func statusPage(status int) *Response {
	text := http.StatusText(status)
	if text == "" && status == StatusPageExpired {
		text = "Page Expired"
	}
	body := fmt.Sprintf(errorPageShell, status, html.EscapeString(text), status, html.EscapeString(text))
	return HTMLResponse(status, body)
}

// ErrorResponse renders the framework's standard error page for any status,
// e.g. ErrorResponse(403) for a denied request. Middleware and actions use
// it to abort with a bare status page.
func ErrorResponse(status int) *Response {
	return statusPage(status)
}

// notFoundResponse is the normal outcome for an unmatched request.
func notFoundResponse() *Response {
	return statusPage(http.StatusNotFound)
}

// PageExpiredResponse is the standard 419 answer used by CSRF protection.
func PageExpiredResponse() *Response {
	return statusPage(StatusPageExpired)
}

var debugPageTmpl = template.Must(template.New("debug").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>500 | Internal Server Error</title>
<style>
body{margin:0;font-family:ui-sans-serif,system-ui,sans-serif;background:#f7fafc;color:#1a202c}
header{background:#c53030;color:#fff;padding:1.25rem 2rem}
header h1{margin:0;font-size:1.125rem;font-weight:600;word-break:break-word}
header p{margin:.5rem 0 0;font-size:.875rem;opacity:.85}
main{padding:1.5rem 2rem}
pre{background:#1a202c;color:#e2e8f0;padding:1rem;border-radius:.375rem;overflow-x:auto;font-size:.8125rem;line-height:1.5}
</style>
</head>
<body>
<header>
<h1>{{.Message}}</h1>
{{if .Location}}<p>{{.Location}}</p>{{end}}
</header>
<main>
<pre>{{.Stack}}</pre>
</main>
</body>
</html>`))

// internalErrorResponse converts a caught failure into the 500 page. In
// debug mode the page shows the error text, the originating location, and
// the captured stack; in production it renders the generic page with no
// internal detail.
func internalErrorResponse(debug bool, err error, stack []byte) *Response {
	if !debug {
		return statusPage(http.StatusInternalServerError)
	}

	data := struct {
		Message  string
		Location string
		Stack    string
	}{
		Message:  err.Error(),
		Location: originFromStack(stack),
		Stack:    string(stack),
	}

	var sb strings.Builder
	if tmplErr := debugPageTmpl.Execute(&sb, data); tmplErr != nil {
		return statusPage(http.StatusInternalServerError)
	}
	return HTMLResponse(http.StatusInternalServerError, sb.String())
}

// originFromStack picks the first frame outside this package and the runtime
// so the debug page can point at application code. Stack format follows
// runtime.Stack: a function line followed by an indented file:line.
func originFromStack(stack []byte) string {
	lines := strings.Split(string(stack), "\n")
	for i := 0; i < len(lines)-1; i++ {
		fn := strings.TrimSpace(lines[i])
		loc := strings.TrimSpace(lines[i+1])
		if !strings.HasPrefix(loc, "/") && !strings.Contains(loc, ".go:") {
			continue
		}
		if strings.HasPrefix(fn, "runtime.") || strings.HasPrefix(fn, "runtime/debug.") || strings.HasPrefix(fn, "panic") {
			continue
		}
		if strings.Contains(fn, "/anvil/internal.") {
			continue
		}
		return loc
	}
	return ""
}
