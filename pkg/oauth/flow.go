package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

const stateBytes = 24

// Flow drives the browser half of an OAuth sign-in for one provider:
// Begin issues the state and the redirect URL, Complete validates the
// callback and resolves the profile. The state travels in a short-lived
// HttpOnly cookie so no server-side storage is involved.
type Flow struct {
	provider   Provider
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithStateCookie overrides the state cookie name. The default is
// "oauth_state_<provider>".
func WithStateCookie(name string) FlowOption {
	return func(f *Flow) {
		if name != "" {
			f.cookieName = name
		}
	}
}

// WithStateTTL bounds how long a started flow stays completable.
func WithStateTTL(d time.Duration) FlowOption {
	return func(f *Flow) {
		if d > 0 {
			f.maxAge = d
		}
	}
}

// WithInsecureCookie drops the Secure cookie attribute for plain-HTTP
// development setups.
func WithInsecureCookie() FlowOption {
	return func(f *Flow) { f.secure = false }
}

// NewFlow wraps a provider with state handling. The defaults expect HTTPS
// and give the user ten minutes to come back from the provider.
func NewFlow(p Provider, opts ...FlowOption) *Flow {
	f := &Flow{
		provider:   p,
		cookieName: "oauth_state_" + p.Name(),
		maxAge:     10 * time.Minute,
		secure:     true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Begin issues a fresh state, stores it in the state cookie, and returns
// the provider URL to redirect the user to.
func (f *Flow) Begin(w http.ResponseWriter) string {
	state := newState()
	http.SetCookie(w, &http.Cookie{
		Name:     f.cookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(f.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return f.provider.AuthURL(state)
}

// Complete validates the callback request's state against the cookie,
// exchanges the code, and fetches the profile. The state cookie is cleared
// whether or not the flow succeeds, so a flow cannot be completed twice.
func (f *Flow) Complete(w http.ResponseWriter, r *http.Request) (*Profile, error) {
	cookie, err := r.Cookie(f.cookieName)
	f.clearState(w)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: missing state cookie", ErrStateMismatch)
	}
	state := r.URL.Query().Get("state")
	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return nil, ErrStateMismatch
	}

	token, err := f.provider.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return nil, err
	}
	return f.provider.Profile(r.Context(), token)
}

func (f *Flow) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     f.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newState() string {
	b := make([]byte, stateBytes)
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
