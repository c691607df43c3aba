package internal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/anvil/pkg/clientip"
	"github.com/dmitrymomot/anvil/pkg/id"
	"github.com/dmitrymomot/anvil/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName = "__sid"
	defaultSessionTTL        = 30 * 24 * time.Hour
)

// SessionManager owns the session lifecycle around a dispatch: it loads or
// creates the session injected into the request Context, and persists it
// onto the response afterwards. The manager itself is stateless across
// requests; all per-request state lives on the session value.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	cookieName string
	domain     string
	path       string
	ttl        time.Duration
	sameSite   http.SameSite
	secure     bool
	httpOnly   bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a new SessionManager with the given store and options.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		cookieName: defaultSessionCookieName,
		ttl:        defaultSessionTTL,
		path:       "/",
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionTTL sets how long sessions live. Defaults to 30 days.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if ttl > 0 {
			sm.ttl = ttl
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.domain = domain
	}
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.path = path
		}
	}
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.secure = secure
	}
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return func(sm *SessionManager) {
		sm.httpOnly = httpOnly
	}
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.sameSite = sameSite
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// LoadOrCreate returns the session for the request: the stored one when the
// request carries a valid session cookie, otherwise a fresh unsaved session.
// It never fails; store errors are logged and answered with a fresh session
// so a degraded store cannot take requests down with it.
func (sm *SessionManager) LoadOrCreate(ctx context.Context, r *http.Request) *session.Session {
	if ck, err := r.Cookie(sm.cookieName); err == nil && ck.Value != "" {
		sess, err := sm.store.Get(ctx, ck.Value)
		if err == nil && !sess.IsExpired() {
			return sess
		}
		if err != nil && !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
			sm.logger.WarnContext(ctx, "session load failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return sm.create(r)
}

// create builds a fresh session with request metadata. The store is not
// touched until Persist sees the session actually carrying state.
func (sm *SessionManager) create(r *http.Request) *session.Session {
	token, err := generateToken()
	if err != nil {
		panic(fmt.Sprintf("session token: %v", err))
	}
	sess := session.New(id.NewULID(), token, time.Now().Add(sm.ttl))
	sess.IP = clientip.Get(r)
	sess.UserAgent = r.UserAgent()
	return sess
}

// Persist writes the session's outcome onto the response. Fresh sessions
// that were never written to are skipped entirely, so drive-by requests do
// not churn the store. Store failures are logged; the response still goes
// out.
func (sm *SessionManager) Persist(ctx context.Context, sess *session.Session, resp *Response) {
	switch {
	case sess.IsDestroyed():
		if !sess.IsNew() {
			if err := sm.store.Delete(ctx, sess.ID); err != nil {
				sm.logger.ErrorContext(ctx, "session delete failed",
					slog.String("session_id", sess.ID),
					slog.String("error", err.Error()),
				)
			}
		}
		resp.WithCookie(sm.expiredCookie())

	case sess.IsNew():
		if !sess.IsDirty() {
			return
		}
		sess.Touch(sm.ttl)
		if err := sm.store.Create(ctx, sess); err != nil {
			sm.logger.ErrorContext(ctx, "session create failed",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		sess.ClearNew()
		sess.ClearDirty()
		resp.WithCookie(sm.cookie(sess.Token))

	case sess.IsDirty():
		sess.Touch(sm.ttl)
		if err := sm.store.Update(ctx, sess); err != nil {
			sm.logger.ErrorContext(ctx, "session update failed",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		sess.ClearDirty()
		if sess.TokenRotated() {
			sess.ClearRotated()
			resp.WithCookie(sm.cookie(sess.Token))
		}
	}
}

// Authenticate binds a user to the session and rotates its token so a
// pre-authentication token captured by an attacker stops working.
func (sm *SessionManager) Authenticate(ctx context.Context, sess *session.Session, userID string) error {
	sess.UserID = &userID
	sess.MarkDirty()
	return sm.RotateToken(ctx, sess)
}

// RotateToken replaces the session token. Stored sessions are re-keyed
// immediately, with rollback when the store refuses; a not-yet-stored
// session just swaps the token and lets Persist do the single write.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	newToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}

	oldToken := sess.Token
	sess.Token = newToken
	sess.MarkRotated()
	sess.MarkDirty()

	if sess.IsNew() {
		return nil
	}
	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = oldToken // Rollback on error
		sess.ClearRotated()
		return err
	}
	return nil
}

// Destroy marks the session for deletion. The store delete and the
// expiring cookie happen at Persist, after dispatch completes.
func (sm *SessionManager) Destroy(ctx context.Context, sess *session.Session) error {
	sess.Destroy()
	return nil
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// CookieName returns the configured session cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

func (sm *SessionManager) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    token,
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   int(sm.ttl.Seconds()),
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	}
}

func (sm *SessionManager) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     sm.path,
		Domain:   sm.domain,
		MaxAge:   -1,
		Secure:   sm.secure,
		HttpOnly: sm.httpOnly,
		SameSite: sm.sameSite,
	}
}

// generateToken creates a cryptographically secure random token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
