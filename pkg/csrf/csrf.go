// Package csrf issues and verifies per-session tokens guarding
// state-changing requests against cross-site request forgery.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/dmitrymomot/anvil/pkg/session"
)

const (
	// DefaultSessionKey is the session value under which the token lives,
	// matching the conventional form field name.
	DefaultSessionKey = "_token"

	// DefaultFormField is the POST field checked for a submitted token.
	DefaultFormField = "_token"

	// HeaderName is the request header checked for a submitted token.
	HeaderName = "X-CSRF-Token"

	tokenBytes = 32
)

// Manager generates and validates session-bound CSRF tokens.
// The zero configuration uses "_token" for both the session key and the
// form field.
type Manager struct {
	sessionKey string
	formField  string
}

// Option configures a Manager.
type Option func(*Manager)

// WithSessionKey overrides the session value key the token is stored under.
func WithSessionKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.sessionKey = key
		}
	}
}

// WithFormField overrides the form field checked for submitted tokens.
func WithFormField(field string) Option {
	return func(m *Manager) {
		if field != "" {
			m.formField = field
		}
	}
}

// New creates a Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		sessionKey: DefaultSessionKey,
		formField:  DefaultFormField,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns the session's CSRF token, generating and storing a new one
// on first use. Returns "" for a nil session.
func (m *Manager) Token(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	if v, ok := sess.GetValue(m.sessionKey); ok {
		if token, ok := v.(string); ok && token != "" {
			return token
		}
	}
	token := generateToken()
	sess.SetValue(m.sessionKey, token)
	return token
}

// Validate reports whether submitted matches the session's token.
// Comparison is constant-time. A session without a token never validates.
func (m *Manager) Validate(sess *session.Session, submitted string) bool {
	if sess == nil || submitted == "" {
		return false
	}
	v, ok := sess.GetValue(m.sessionKey)
	if !ok {
		return false
	}
	stored, ok := v.(string)
	if !ok || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// TokenFromRequest extracts a submitted token, checking the X-CSRF-Token
// header first and the form field second. The form lookup parses the
// request body for form-encoded content types.
func (m *Manager) TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}
	return r.PostFormValue(m.formField)
}

// generateToken creates a cryptographically secure random token.
func generateToken() string {
	b := make([]byte, tokenBytes)
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
