package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrymomot/anvil/pkg/session"
)

// mockStore implements session.Store with call counters for persist
// assertions.
type mockStore struct {
	sessions map[string]*session.Session
	onUpdate func(s *session.Session) error

	creates int
	updates int
	deletes int
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *mockStore) Create(ctx context.Context, sess *session.Session) error {
	s.creates++
	s.sessions[sess.Token] = sess
	return nil
}

func (s *mockStore) Get(ctx context.Context, token string) (*session.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	if sess.IsExpired() {
		return nil, session.ErrExpired
	}
	return sess, nil
}

func (s *mockStore) Update(ctx context.Context, sess *session.Session) error {
	s.updates++
	if s.onUpdate != nil {
		return s.onUpdate(sess)
	}
	// Re-key by token, since rotation changes it.
	for token := range s.sessions {
		if s.sessions[token].ID == sess.ID {
			delete(s.sessions, token)
			break
		}
	}
	s.sessions[sess.Token] = sess
	return nil
}

func (s *mockStore) Delete(ctx context.Context, id string) error {
	s.deletes++
	for token, sess := range s.sessions {
		if sess.ID == id {
			delete(s.sessions, token)
			return nil
		}
	}
	return nil
}

func (s *mockStore) DeleteByUserID(ctx context.Context, userID string) error {
	for token, sess := range s.sessions {
		if sess.UserID != nil && *sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *mockStore) DeleteExpired(ctx context.Context) error {
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *mockStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	for _, sess := range s.sessions {
		if sess.ID == id {
			sess.LastActiveAt = lastActiveAt
			return nil
		}
	}
	return nil
}

// storedSession seeds the store with a session that behaves as loaded, not
// freshly created.
func storedSession(store *mockStore, id, token string) *session.Session {
	sess := session.New(id, token, time.Now().Add(time.Hour))
	sess.ClearNew()
	store.sessions[token] = sess
	return sess
}

func TestSessionManager_LoadOrCreate_NoCookie(t *testing.T) {
	sm := NewSessionManager(newMockStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.RemoteAddr = "192.168.1.1:12345"

	sess := sm.LoadOrCreate(context.Background(), req)

	if sess == nil {
		t.Fatal("LoadOrCreate() returned nil")
	}
	if !sess.IsNew() {
		t.Error("session without a cookie should be new")
	}
	if sess.ID == "" {
		t.Error("session ID is empty")
	}
	if sess.Token == "" {
		t.Error("session Token is empty")
	}
	if sess.IP != "192.168.1.1" {
		t.Errorf("IP = %q, want %q", sess.IP, "192.168.1.1")
	}
	if sess.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent = %q, want %q", sess.UserAgent, "test-agent/1.0")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("ExpiresAt should be in the future")
	}
}

func TestSessionManager_LoadOrCreate_ValidCookie(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)
	stored := storedSession(store, "sess-1", "tok-1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__sid", Value: "tok-1"})

	sess := sm.LoadOrCreate(context.Background(), req)

	if sess.ID != stored.ID {
		t.Errorf("loaded ID = %q, want %q", sess.ID, stored.ID)
	}
	if sess.IsNew() {
		t.Error("loaded session should not be new")
	}
}

func TestSessionManager_LoadOrCreate_UnknownToken(t *testing.T) {
	sm := NewSessionManager(newMockStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__sid", Value: "no-such-token"})

	sess := sm.LoadOrCreate(context.Background(), req)

	if sess == nil {
		t.Fatal("LoadOrCreate() returned nil")
	}
	if !sess.IsNew() {
		t.Error("unknown token should produce a fresh session")
	}
}

func TestSessionManager_LoadOrCreate_Expired(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)

	expired := session.New("sess-1", "tok-1", time.Now().Add(-time.Hour))
	expired.ClearNew()
	store.sessions["tok-1"] = expired

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__sid", Value: "tok-1"})

	sess := sm.LoadOrCreate(context.Background(), req)

	if !sess.IsNew() {
		t.Error("expired session should be replaced by a fresh one")
	}
	if sess.ID == expired.ID {
		t.Error("fresh session should not reuse the expired ID")
	}
}

func TestSessionManager_Persist_FreshUntouched(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)

	sess := sm.LoadOrCreate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	resp := TextResponse(http.StatusOK, "ok")

	sm.Persist(context.Background(), sess, resp)

	if store.creates != 0 {
		t.Errorf("creates = %d, want 0: untouched sessions must not hit the store", store.creates)
	}
	if len(resp.Cookies()) != 0 {
		t.Errorf("cookies = %d, want 0", len(resp.Cookies()))
	}
}

func TestSessionManager_Persist_FreshDirty(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)

	sess := sm.LoadOrCreate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	sess.SetValue("cart", "item-1")
	resp := TextResponse(http.StatusOK, "ok")

	sm.Persist(context.Background(), sess, resp)

	if store.creates != 1 {
		t.Fatalf("creates = %d, want 1", store.creates)
	}
	if sess.IsNew() || sess.IsDirty() {
		t.Error("persisted session should have new and dirty flags cleared")
	}

	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Name != "__sid" {
		t.Errorf("cookie name = %q, want %q", cookies[0].Name, "__sid")
	}
	if cookies[0].Value != sess.Token {
		t.Errorf("cookie value = %q, want session token", cookies[0].Value)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestSessionManager_Persist_DirtyStored(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)
	sess := storedSession(store, "sess-1", "tok-1")

	sess.SetValue("cart", "item-2")
	resp := TextResponse(http.StatusOK, "ok")

	sm.Persist(context.Background(), sess, resp)

	if store.updates != 1 {
		t.Fatalf("updates = %d, want 1", store.updates)
	}
	if len(resp.Cookies()) != 0 {
		t.Error("no cookie should be issued when the token did not change")
	}
}

func TestSessionManager_Persist_Rotated(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)
	sess := storedSession(store, "sess-1", "tok-1")

	if err := sm.RotateToken(context.Background(), sess); err != nil {
		t.Fatalf("RotateToken() error: %v", err)
	}

	resp := TextResponse(http.StatusOK, "ok")
	sm.Persist(context.Background(), sess, resp)

	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Value != sess.Token {
		t.Errorf("cookie value = %q, want rotated token %q", cookies[0].Value, sess.Token)
	}
	if cookies[0].Value == "tok-1" {
		t.Error("cookie still carries the old token")
	}
}

func TestSessionManager_Persist_Destroyed(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)
	sess := storedSession(store, "sess-1", "tok-1")

	if err := sm.Destroy(context.Background(), sess); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}

	resp := TextResponse(http.StatusOK, "ok")
	sm.Persist(context.Background(), sess, resp)

	if store.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", store.deletes)
	}

	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Errorf("cookie value = %q, want empty", cookies[0].Value)
	}
}

func TestSessionManager_Authenticate(t *testing.T) {
	store := newMockStore()
	sm := NewSessionManager(store)
	sess := storedSession(store, "sess-1", "tok-1")

	if err := sm.Authenticate(context.Background(), sess, "user-1"); err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}

	if sess.UserID == nil || *sess.UserID != "user-1" {
		t.Error("UserID should be bound to the session")
	}
	if sess.Token == "tok-1" {
		t.Error("token should have been rotated")
	}
	if !sess.IsDirty() {
		t.Error("session should be dirty after authentication")
	}
}

func TestSessionManager_RotateToken(t *testing.T) {
	t.Run("fresh session swaps without touching the store", func(t *testing.T) {
		store := newMockStore()
		sm := NewSessionManager(store)

		sess := sm.LoadOrCreate(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
		oldToken := sess.Token

		if err := sm.RotateToken(context.Background(), sess); err != nil {
			t.Fatalf("RotateToken() error: %v", err)
		}
		if sess.Token == oldToken {
			t.Error("token was not rotated")
		}
		if store.updates != 0 {
			t.Errorf("updates = %d, want 0: fresh sessions persist later in one write", store.updates)
		}
	})

	t.Run("stored session is re-keyed immediately", func(t *testing.T) {
		store := newMockStore()
		sm := NewSessionManager(store)
		sess := storedSession(store, "sess-1", "tok-1")

		if err := sm.RotateToken(context.Background(), sess); err != nil {
			t.Fatalf("RotateToken() error: %v", err)
		}
		if store.updates != 1 {
			t.Errorf("updates = %d, want 1", store.updates)
		}
		if _, err := store.Get(context.Background(), sess.Token); err != nil {
			t.Errorf("store lookup by new token failed: %v", err)
		}
	})

	t.Run("rolls back on store failure", func(t *testing.T) {
		store := newMockStore()
		store.onUpdate = func(*session.Session) error {
			return errors.New("store down")
		}
		sm := NewSessionManager(store)
		sess := storedSession(store, "sess-1", "tok-1")

		err := sm.RotateToken(context.Background(), sess)
		if err == nil {
			t.Fatal("expected error from failed rotation")
		}
		if sess.Token != "tok-1" {
			t.Errorf("token = %q, want the original restored on failure", sess.Token)
		}
		if sess.TokenRotated() {
			t.Error("rotation flag should be cleared on failure")
		}
	})
}

func TestSessionManager_Options(t *testing.T) {
	sm := NewSessionManager(newMockStore(),
		WithSessionCookieName("custom"),
		WithSessionTTL(time.Hour),
		WithSessionDomain("example.com"),
		WithSessionPath("/app"),
		WithSessionSecure(true),
		WithSessionHTTPOnly(false),
		WithSessionSameSite(http.SameSiteStrictMode),
	)

	if sm.cookieName != "custom" {
		t.Errorf("cookieName = %q, want %q", sm.cookieName, "custom")
	}
	if sm.ttl != time.Hour {
		t.Errorf("ttl = %v, want %v", sm.ttl, time.Hour)
	}
	if sm.domain != "example.com" {
		t.Errorf("domain = %q, want %q", sm.domain, "example.com")
	}
	if sm.path != "/app" {
		t.Errorf("path = %q, want %q", sm.path, "/app")
	}
	if !sm.secure {
		t.Error("secure = false, want true")
	}
	if sm.httpOnly {
		t.Error("httpOnly = true, want false")
	}
	if sm.sameSite != http.SameSiteStrictMode {
		t.Errorf("sameSite = %v, want %v", sm.sameSite, http.SameSiteStrictMode)
	}
}
