package internal

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/anvil/pkg/binder"
	"github.com/dmitrymomot/anvil/pkg/clientip"
	"github.com/dmitrymomot/anvil/pkg/cookie"
	"github.com/dmitrymomot/anvil/pkg/htmx"
	"github.com/dmitrymomot/anvil/pkg/i18n"
	"github.com/dmitrymomot/anvil/pkg/queue"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/storage"
	"github.com/dmitrymomot/anvil/pkg/validator"
	"github.com/dmitrymomot/anvil/pkg/view"
)

// ValidationErrors is a collection of validation errors.
type ValidationErrors = validator.ValidationErrors

// TranslatorKey is the context key under which the Locale middleware stores
// the request's i18n translator.
type TranslatorKey struct{}

// LanguageKey is the context key under which the Locale middleware stores
// the resolved language tag.
type LanguageKey struct{}

// Session flash keys. Old input and validation errors survive exactly one
// redirect; Context consumes them on first read.
const (
	sessionKeyErrors   = "_errors"
	sessionKeyOldInput = "_old_input"
	flashKeyPrefix     = "_flash:"
)

// maxMultipartMemory bounds in-memory buffering for multipart forms.
const maxMultipartMemory = 32 << 20 // 32MB

// Context carries one request through the dispatch pipeline: the parsed
// request data, the extracted route parameters, the injected session, and
// accessors for the application's capabilities. Each dispatch gets a fresh
// Context; nothing here is shared between requests.
type Context struct {
	app     *App
	req     *http.Request
	session *session.Session
	logger  *slog.Logger

	queuedCookies []*http.Cookie
	pendingHeader http.Header
	deferred      []func()

	paramNames  []string
	paramValues []string

	method string
	path   string

	oldInput   map[string]string
	flashRead  map[string]string
	viewErrors validator.ValidationErrors
	oldLoaded  bool
	errsLoaded bool
	formParsed bool
}

// NewContext builds a Context from an HTTP request. The request path is
// normalized the same way route templates are, so /hello/ dispatches like
// /hello. Application wiring (session, views, logger) is attached by the App;
// a bare Context still serves routing tests and library use.
func NewContext(r *http.Request) *Context {
	return &Context{
		req:    r,
		logger: slog.New(slog.DiscardHandler),
		method: strings.ToUpper(r.Method),
		path:   normalizePath(r.URL.Path),
	}
}

// newAppContext wires a Context to a running App.
func newAppContext(app *App, r *http.Request) *Context {
	c := NewContext(r)
	c.app = app
	if app.logger != nil {
		c.logger = app.logger
	}
	return c
}

// Request returns the underlying *http.Request.
func (c *Context) Request() *http.Request { return c.req }

// Method returns the uppercased request method.
func (c *Context) Method() string { return c.method }

// Path returns the normalized request path.
func (c *Context) Path() string { return c.path }

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.req.Context() }

// SetRequestContext swaps the context.Context carried by the request.
// The Timeout middleware uses this to attach a deadline for downstream I/O.
func (c *Context) SetRequestContext(ctx context.Context) {
	c.req = c.req.WithContext(ctx)
}

// Defer schedules fn to run after the response has been written. Middleware
// uses this to release resources that must outlive its own return.
func (c *Context) Defer(fn func()) {
	if fn != nil {
		c.deferred = append(c.deferred, fn)
	}
}

func (c *Context) runDeferred() {
	for i := len(c.deferred) - 1; i >= 0; i-- {
		c.deferred[i]()
	}
}

// setParams binds extracted route parameters for this dispatch. Names and
// values are positional, in pattern order.
func (c *Context) setParams(names, values []string) {
	c.paramNames = names
	c.paramValues = values
}

// Param returns a route parameter by placeholder name, or "".
func (c *Context) Param(name string) string {
	for i, n := range c.paramNames {
		if n == name && i < len(c.paramValues) {
			return c.paramValues[i]
		}
	}
	return ""
}

// Params returns the route parameter values positionally, in pattern order.
func (c *Context) Params() []string { return c.paramValues }

// Query returns a query parameter, or "".
func (c *Context) Query(name string) string {
	return c.req.URL.Query().Get(name)
}

// QueryDefault returns a query parameter or a default when absent.
func (c *Context) QueryDefault(name, defaultValue string) string {
	if v := c.req.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *Context) parseForm() {
	if c.formParsed {
		return
	}
	c.formParsed = true
	ct := c.req.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		_ = c.req.ParseMultipartForm(maxMultipartMemory)
		return
	}
	_ = c.req.ParseForm()
}

// Form returns a body form field, or "".
func (c *Context) Form(name string) string {
	c.parseForm()
	return c.req.PostFormValue(name)
}

// FormValues returns all parsed body form fields.
func (c *Context) FormValues() url.Values {
	c.parseForm()
	return c.req.PostForm
}

// Input returns a request input by name, with body fields taking precedence
// over query parameters.
func (c *Context) Input(name string) string {
	if v := c.Form(name); v != "" {
		return v
	}
	return c.req.URL.Query().Get(name)
}

// InputAll merges query and body inputs into one map, body winning on
// conflicts. Multi-value fields keep their first value.
func (c *Context) InputAll() map[string]string {
	c.parseForm()
	all := make(map[string]string)
	for k, vs := range c.req.URL.Query() {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}
	for k, vs := range c.req.PostForm {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}
	return all
}

// FormFile returns the first uploaded file for the given field.
func (c *Context) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	c.parseForm()
	return c.req.FormFile(name)
}

// Header returns a request header value.
func (c *Context) Header(name string) string {
	return c.req.Header.Get(name)
}

// SetHeader stages a header on the eventual response, replacing any value
// staged under the same key. Middleware uses this because the Response does
// not exist yet while the filter pass runs; Dispatch merges staged headers
// into whatever Response the request produces, short-circuits and error
// pages included.
func (c *Context) SetHeader(key, value string) {
	if c.pendingHeader == nil {
		c.pendingHeader = make(http.Header)
	}
	c.pendingHeader.Set(key, value)
}

// AddHeader stages a header on the eventual response without replacing
// values already staged under the same key. Needed for multi-valued headers
// such as Vary.
func (c *Context) AddHeader(key, value string) {
	if c.pendingHeader == nil {
		c.pendingHeader = make(http.Header)
	}
	c.pendingHeader.Add(key, value)
}

// applyPendingHeaders copies staged headers onto resp.
func (c *Context) applyPendingHeaders(resp *Response) {
	for key, values := range c.pendingHeader {
		for _, v := range values {
			resp.header.Add(key, v)
		}
	}
}

// Cookie returns a request cookie value.
func (c *Context) Cookie(name string) (string, error) {
	ck, err := c.req.Cookie(name)
	if err != nil {
		return "", fmt.Errorf("anvil: read cookie %q: %w", name, err)
	}
	return ck.Value, nil
}

// CookieSigned reads and verifies an HMAC-signed cookie.
func (c *Context) CookieSigned(name string) (string, error) {
	if c.app == nil || c.app.cookieManager == nil {
		return "", cookie.ErrNotConfigured
	}
	return c.app.cookieManager.GetSigned(c.req, name)
}

// CookieEncrypted reads and decrypts an encrypted cookie.
func (c *Context) CookieEncrypted(name string) (string, error) {
	if c.app == nil || c.app.cookieManager == nil {
		return "", cookie.ErrNotConfigured
	}
	return c.app.cookieManager.GetEncrypted(c.req, name)
}

// SetCookie queues a plain cookie for the response. MaxAge is in seconds;
// zero means a browser-session cookie.
func (c *Context) SetCookie(name, value string, maxAge int) {
	if c.app == nil || c.app.cookieManager == nil {
		c.QueueCookie(&http.Cookie{Name: name, Value: value, Path: "/", MaxAge: maxAge})
		return
	}
	c.QueueCookie(c.app.cookieManager.Plain(name, value, maxAge))
}

// SetCookieSigned queues an HMAC-signed cookie for the response.
func (c *Context) SetCookieSigned(name, value string, maxAge int) error {
	if c.app == nil || c.app.cookieManager == nil {
		return cookie.ErrNotConfigured
	}
	ck, err := c.app.cookieManager.Signed(name, value, maxAge)
	if err != nil {
		return err
	}
	c.QueueCookie(ck)
	return nil
}

// SetCookieEncrypted queues an encrypted cookie for the response.
func (c *Context) SetCookieEncrypted(name, value string, maxAge int) error {
	if c.app == nil || c.app.cookieManager == nil {
		return cookie.ErrNotConfigured
	}
	ck, err := c.app.cookieManager.Encrypted(name, value, maxAge)
	if err != nil {
		return err
	}
	c.QueueCookie(ck)
	return nil
}

// DeleteCookie queues an expiring cookie for the response.
func (c *Context) DeleteCookie(name string) {
	c.QueueCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}

// QueueCookie schedules a cookie to be attached to the final response.
// Actions and middleware queue cookies here because the Response is not
// materialized until dispatch completes.
func (c *Context) QueueCookie(ck *http.Cookie) {
	if ck != nil {
		c.queuedCookies = append(c.queuedCookies, ck)
	}
}

// IP returns the client IP, honoring forwarding headers.
func (c *Context) IP() string { return clientip.Get(c.req) }

// UserAgent returns the request User-Agent header.
func (c *Context) UserAgent() string { return c.req.UserAgent() }

// IsHTMX reports whether the request originated from HTMX.
func (c *Context) IsHTMX() bool { return htmx.IsHTMX(c.req) }

// WantsJSON reports whether the client expects a JSON reply, either via the
// Accept header or an XMLHttpRequest marker. Validation failures answer with
// 422 JSON instead of a redirect when this is true.
func (c *Context) WantsJSON() bool {
	if strings.Contains(c.req.Header.Get("Accept"), "application/json") {
		return true
	}
	return c.req.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Set stores a value in the request context, retrievable with Get or from
// any context.Context derived from this request.
func (c *Context) Set(key, value any) {
	c.req = c.req.WithContext(context.WithValue(c.req.Context(), key, value))
}

// Get retrieves a value stored with Set. Returns nil if absent.
func (c *Context) Get(key any) any {
	return c.req.Context().Value(key)
}

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// SetLogger swaps the request logger; middleware uses this to attach
// request-scoped attributes like the request ID.
func (c *Context) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

func (c *Context) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.req.Context(), msg, attrs...)
}

func (c *Context) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.req.Context(), msg, attrs...)
}

func (c *Context) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.req.Context(), msg, attrs...)
}

func (c *Context) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.req.Context(), msg, attrs...)
}

// Session returns the session injected for this request, or nil when the
// application has no session store configured. The App loads the session
// before dispatch and persists it after, so middleware and actions share
// one live value.
func (c *Context) Session() *session.Session { return c.session }

// SetSession injects the session capability. The App calls this before
// dispatch; tests inject fixtures directly.
func (c *Context) SetSession(s *session.Session) { c.session = s }

// UserID returns the authenticated user's ID, or "".
func (c *Context) UserID() string {
	if c.session == nil || c.session.UserID == nil {
		return ""
	}
	return *c.session.UserID
}

// IsAuthenticated reports whether a user is bound to the session.
func (c *Context) IsAuthenticated() bool { return c.UserID() != "" }

// Authenticate binds a user to the session and rotates the session token to
// prevent fixation.
func (c *Context) Authenticate(userID string) error {
	if c.app == nil || c.app.sessionManager == nil {
		return session.ErrNotConfigured
	}
	if c.session == nil {
		return session.ErrNotFound
	}
	return c.app.sessionManager.Authenticate(c.req.Context(), c.session, userID)
}

// Logout destroys the session; the App clears the cookie when writing the
// response.
func (c *Context) Logout() error {
	if c.app == nil || c.app.sessionManager == nil {
		return session.ErrNotConfigured
	}
	if c.session == nil {
		return nil
	}
	return c.app.sessionManager.Destroy(c.req.Context(), c.session)
}

// CSRFToken returns the session's CSRF token, generating one on first use.
// Returns "" when sessions are not configured.
func (c *Context) CSRFToken() string {
	if c.app == nil || c.app.csrf == nil || c.session == nil {
		return ""
	}
	return c.app.csrf.Token(c.session)
}

// VerifyCSRF compares the token submitted with the request (X-CSRF-Token
// header or the _token form field) against the session token. False when
// sessions are not configured, when the session carries no token yet, or on
// mismatch.
func (c *Context) VerifyCSRF() bool {
	if c.app == nil || c.app.csrf == nil || c.session == nil {
		return false
	}
	return c.app.csrf.Validate(c.session, c.app.csrf.TokenFromRequest(c.req))
}

// Flash stores a one-shot message in the session, surviving exactly one
// redirect.
func (c *Context) Flash(key, message string) {
	if c.session == nil {
		return
	}
	c.session.SetValue(flashKeyPrefix+key, message)
}

// FlashValue consumes a flash message set by a previous request. Repeated
// reads within the same request return the same value.
func (c *Context) FlashValue(key string) string {
	if v, ok := c.flashRead[key]; ok {
		return v
	}
	if c.session == nil {
		return ""
	}
	v, ok := c.session.GetValue(flashKeyPrefix + key)
	if !ok {
		return ""
	}
	c.session.DeleteValue(flashKeyPrefix + key)
	s, _ := v.(string)
	if c.flashRead == nil {
		c.flashRead = map[string]string{}
	}
	c.flashRead[key] = s
	return s
}

// Old returns flashed input from the previous request, used to repopulate
// forms after a validation redirect.
func (c *Context) Old(key string) string {
	c.loadOldInput()
	return c.oldInput[key]
}

func (c *Context) loadOldInput() {
	if c.oldLoaded {
		return
	}
	c.oldLoaded = true
	c.oldInput = map[string]string{}
	if c.session == nil {
		return
	}
	raw, ok := c.session.GetValue(sessionKeyOldInput)
	if !ok {
		return
	}
	c.session.DeleteValue(sessionKeyOldInput)
	switch m := raw.(type) {
	case map[string]string:
		c.oldInput = m
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				c.oldInput[k] = s
			}
		}
	}
}

// Errors returns validation errors flashed by a previous request's failed
// validation, for rendering alongside the form.
func (c *Context) Errors() validator.ValidationErrors {
	c.loadErrors()
	return c.viewErrors
}

func (c *Context) loadErrors() {
	if c.errsLoaded {
		return
	}
	c.errsLoaded = true
	if c.session == nil {
		return
	}
	raw, ok := c.session.GetValue(sessionKeyErrors)
	if !ok {
		return
	}
	c.session.DeleteValue(sessionKeyErrors)
	switch v := raw.(type) {
	case validator.ValidationErrors:
		c.viewErrors = v
	case map[string][]string:
		c.viewErrors = validator.ErrorsFromMessages(v)
	case map[string]any:
		c.viewErrors = validator.ErrorsFromMap(v)
	}
}

// Validate checks merged request input against Laravel-style rule strings,
// e.g. {"email": "required|email", "name": "required|min:3"}. On success it
// returns the validated subset of input. On failure the request terminates
// early: JSON clients get a 422 payload, browser clients get their errors
// and input flashed to the session and a redirect back. The returned error
// wraps the ready Response; dispatch unwraps it without treating the request
// as failed.
func (c *Context) Validate(rules validator.Rules) (map[string]string, error) {
	data := c.InputAll()
	err := validator.ValidateMap(data, rules)
	if err == nil {
		validated := make(map[string]string, len(rules))
		for field := range rules {
			validated[field] = data[field]
		}
		return validated, nil
	}

	if !validator.IsValidationError(err) {
		return nil, err
	}
	ve := validator.ExtractValidationErrors(err)
	if tr := c.translator(); tr != nil {
		ve.Translate(tr.TranslateMessage)
	}

	if c.WantsJSON() {
		resp, jerr := JSONResponse(http.StatusUnprocessableEntity, D{
			"message": "The given data was invalid.",
			"errors":  ve.ToMap(),
		})
		if jerr != nil {
			return nil, jerr
		}
		return nil, Terminate(resp)
	}

	if c.session != nil {
		// Stored as field-to-messages so it survives a JSON round trip
		// through Redis or Postgres session stores.
		c.session.SetValue(sessionKeyErrors, ve.ToMap())
		old := make(map[string]string, len(data))
		for k, v := range data {
			if k == "password" || k == "password_confirmation" || k == "_token" {
				continue
			}
			old[k] = v
		}
		c.session.SetValue(sessionKeyOldInput, old)
	}
	return nil, Terminate(c.Back())
}

// Bind binds form data, sanitizes, and validates into a struct. Validation
// failures come back as the first return value; system failures as the
// second.
func (c *Context) Bind(v any) (ValidationErrors, error) {
	c.parseForm()
	return c.bindAndValidate(binder.Form(), v, "bind form")
}

// BindQuery binds query parameters, sanitizes, and validates into a struct.
func (c *Context) BindQuery(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.Query(), v, "bind query")
}

// BindJSON binds the JSON body, sanitizes, and validates into a struct.
func (c *Context) BindJSON(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.JSON(), v, "bind json")
}

func (c *Context) bindAndValidate(bind func(*http.Request, any) error, v any, label string) (ValidationErrors, error) {
	if err := bind(c.req, v); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	if err := validator.ValidateStruct(v); err != nil {
		if validator.IsValidationError(err) {
			ve := validator.ExtractValidationErrors(err)
			if tr := c.translator(); tr != nil {
				ve.Translate(tr.TranslateMessage)
			}
			return ve, nil
		}
		return nil, fmt.Errorf("validate: %w", err)
	}
	return nil, nil
}

// translator returns the request translator placed by the Locale middleware.
func (c *Context) translator() *i18n.Translator {
	tr, _ := c.Get(TranslatorKey{}).(*i18n.Translator)
	return tr
}

// T translates a key using the request's translator. Returns the key itself
// when no translator is configured.
func (c *Context) T(key string, placeholders ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.T(key, placeholders...)
	}
	return key
}

// Tn translates a key with plural selection for n.
func (c *Context) Tn(key string, n int, placeholders ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.Tn(key, n, placeholders...)
	}
	return key
}

// Language returns the language resolved by the Locale middleware, or "".
func (c *Context) Language() string {
	lang, _ := c.Get(LanguageKey{}).(string)
	return lang
}

// FormatNumber formats a number with the request locale's separators.
// Falls back to fmt formatting when no translator is configured.
func (c *Context) FormatNumber(n float64) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatNumber(n)
	}
	return fmt.Sprintf("%g", n)
}

// FormatCurrency formats a currency amount for the request locale.
func (c *Context) FormatCurrency(amount float64) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatCurrency(amount)
	}
	return fmt.Sprintf("%.2f", amount)
}

// FormatPercent formats a decimal fraction as a percentage, 0.5 reading as
// 50%.
func (c *Context) FormatPercent(n float64) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatPercent(n)
	}
	return fmt.Sprintf("%.0f%%", n*100)
}

// FormatDate formats a date for the request locale.
func (c *Context) FormatDate(date time.Time) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatDate(date)
	}
	return date.Format("2006-01-02")
}

// FormatTime formats a clock time for the request locale.
func (c *Context) FormatTime(t time.Time) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatTime(t)
	}
	return t.Format("15:04:05")
}

// FormatDateTime formats a timestamp for the request locale.
func (c *Context) FormatDateTime(datetime time.Time) string {
	if tr := c.translator(); tr != nil {
		return tr.FormatDateTime(datetime)
	}
	return datetime.Format("2006-01-02 15:04:05")
}

// URL generates an absolute URL for a named route; see Router.URL.
func (c *Context) URL(name string, params map[string]any) (string, error) {
	if c.app == nil || c.app.router == nil {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return c.app.router.URL(name, params)
}

// View renders a named template into an HTML response, injecting the
// standard view helpers (csrf_field, route, old, errors, flash, t, auth).
func (c *Context) View(name string, data map[string]any) (*Response, error) {
	return c.ViewStatus(http.StatusOK, name, data)
}

// ViewStatus renders a named template with an explicit status code.
func (c *Context) ViewStatus(status int, name string, data map[string]any) (*Response, error) {
	if c.app == nil || c.app.views == nil {
		return nil, view.ErrNotConfigured
	}
	html, err := c.app.views.Render(name, data, c.viewFuncs())
	if err != nil {
		return nil, err
	}
	return HTMLResponse(status, html), nil
}

// Render renders a templ component into an HTML response. Actions may also
// return the component directly and let normalization do the same work;
// Render is for when the action needs the Response in hand, e.g. to attach
// a status code or headers.
func (c *Context) Render(component templ.Component) (*Response, error) {
	var buf bytes.Buffer
	if err := component.Render(c.Context(), &buf); err != nil {
		return nil, fmt.Errorf("anvil: render component: %w", err)
	}
	return HTMLResponse(http.StatusOK, buf.String()), nil
}

// JSON wraps v in an application/json response.
func (c *Context) JSON(status int, v any) (*Response, error) {
	return JSONResponse(status, v)
}

// HTML wraps markup in a text/html response.
func (c *Context) HTML(status int, body string) *Response {
	return HTMLResponse(status, body)
}

// Text wraps plain text in a text/plain response.
func (c *Context) Text(status int, body string) *Response {
	return TextResponse(status, body)
}

// Redirect produces a 302 redirect to the given URL.
func (c *Context) Redirect(location string) *Response {
	return RedirectResponse(http.StatusFound, location)
}

// RedirectStatus produces a redirect with an explicit status code.
func (c *Context) RedirectStatus(status int, location string) *Response {
	return RedirectResponse(status, location)
}

// RedirectRoute redirects to a named route.
func (c *Context) RedirectRoute(name string, params map[string]any) (*Response, error) {
	u, err := c.URL(name, params)
	if err != nil {
		return nil, err
	}
	return RedirectResponse(http.StatusFound, u), nil
}

// Back redirects to the referring page, or the root when there is none.
func (c *Context) Back() *Response {
	ref := c.req.Referer()
	if ref == "" {
		ref = "/"
	}
	return RedirectResponse(http.StatusFound, ref)
}

// NoContent produces an empty 204 response.
func (c *Context) NoContent() *Response {
	return NoContentResponse()
}

// Enqueue adds a background job for processing.
// Returns queue.ErrNotConfigured if the application has no queue.
func (c *Context) Enqueue(name string, payload any, opts ...queue.EnqueueOption) error {
	if c.app == nil || c.app.enqueuer == nil {
		return queue.ErrNotConfigured
	}
	return c.app.enqueuer.Enqueue(c.req.Context(), name, payload, opts...)
}

// Storage returns the configured file storage.
// Returns storage.ErrNotConfigured if the application has none.
func (c *Context) Storage() (storage.Storage, error) {
	if c.app == nil || c.app.storage == nil {
		return nil, storage.ErrNotConfigured
	}
	return c.app.storage, nil
}

// Upload stores data in file storage and returns the resulting file info.
func (c *Context) Upload(r io.Reader, size int64, opts ...storage.Option) (*storage.FileInfo, error) {
	s, err := c.Storage()
	if err != nil {
		return nil, err
	}
	return s.Put(c.req.Context(), r, size, opts...)
}

// Download retrieves a file from storage. The caller closes the reader.
func (c *Context) Download(key string) (io.ReadCloser, error) {
	s, err := c.Storage()
	if err != nil {
		return nil, err
	}
	return s.Get(c.req.Context(), key)
}

// DeleteFile removes a file from storage.
func (c *Context) DeleteFile(key string) error {
	s, err := c.Storage()
	if err != nil {
		return err
	}
	return s.Delete(c.req.Context(), key)
}

// FileURL returns a URL for accessing a stored file. Private files get a
// signed URL, public files a plain one.
func (c *Context) FileURL(key string, opts ...storage.URLOption) (string, error) {
	s, err := c.Storage()
	if err != nil {
		return "", err
	}
	return s.URL(c.req.Context(), key, opts...)
}

// viewFuncs builds the per-request template helpers.
func (c *Context) viewFuncs() map[string]any {
	return map[string]any{
		"csrf_token": c.CSRFToken,
		"csrf_field": func() template.HTML {
			return template.HTML(`<input type="hidden" name="_token" value="` + c.CSRFToken() + `">`)
		},
		"route": func(name string, pairs ...any) string {
			params := make(map[string]any, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				params[fmt.Sprint(pairs[i])] = pairs[i+1]
			}
			u, err := c.URL(name, params)
			if err != nil {
				return ""
			}
			return u
		},
		"old":    c.Old,
		"errors": c.Errors,
		"flash":  c.FlashValue,
		"t":      func(key string) string { return c.T(key) },
		"auth":   c.IsAuthenticated,
		"user_id": func() string {
			return c.UserID()
		},
	}
}
