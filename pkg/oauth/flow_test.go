package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/anvil/pkg/oauth"
)

// fakeProvider records calls instead of talking to a real identity service.
type fakeProvider struct {
	exchangedCode string
	profile       *oauth.Profile
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) AuthURL(state string) string {
	return "https://fake.example/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.exchangedCode = code
	return &oauth2.Token{AccessToken: "fake-token"}, nil
}

func (f *fakeProvider) Profile(context.Context, *oauth2.Token) (*oauth.Profile, error) {
	return f.profile, nil
}

func stateCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestFlowBegin(t *testing.T) {
	t.Parallel()

	t.Run("sets state cookie matching auth url", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{})
		w := httptest.NewRecorder()

		authURL := flow.Begin(w)

		c := stateCookie(t, w, "oauth_state_fake")
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Contains(t, authURL, "state="+url.QueryEscape(c.Value))
	})

	t.Run("fresh state per begin", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{})
		w1, w2 := httptest.NewRecorder(), httptest.NewRecorder()
		flow.Begin(w1)
		flow.Begin(w2)
		assert.NotEqual(t,
			stateCookie(t, w1, "oauth_state_fake").Value,
			stateCookie(t, w2, "oauth_state_fake").Value,
		)
	})

	t.Run("insecure cookie option", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{}, oauth.WithInsecureCookie(), oauth.WithStateCookie("st"))
		w := httptest.NewRecorder()
		flow.Begin(w)
		assert.False(t, stateCookie(t, w, "st").Secure)
	})
}

func TestFlowComplete(t *testing.T) {
	t.Parallel()

	begin := func(t *testing.T, flow *oauth.Flow) string {
		t.Helper()
		w := httptest.NewRecorder()
		flow.Begin(w)
		return stateCookie(t, w, "oauth_state_fake").Value
	}

	t.Run("valid callback yields profile", func(t *testing.T) {
		t.Parallel()
		p := &fakeProvider{profile: &oauth.Profile{Provider: "fake", Email: "u@example.com"}}
		flow := oauth.NewFlow(p)
		state := begin(t, flow)

		r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state), nil)
		r.AddCookie(&http.Cookie{Name: "oauth_state_fake", Value: state})
		w := httptest.NewRecorder()

		profile, err := flow.Complete(w, r)
		require.NoError(t, err)
		assert.Equal(t, "u@example.com", profile.Email)
		assert.Equal(t, "abc", p.exchangedCode)
	})

	t.Run("clears the state cookie", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{profile: &oauth.Profile{}})
		state := begin(t, flow)

		r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state), nil)
		r.AddCookie(&http.Cookie{Name: "oauth_state_fake", Value: state})
		w := httptest.NewRecorder()

		_, err := flow.Complete(w, r)
		require.NoError(t, err)
		c := stateCookie(t, w, "oauth_state_fake")
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	})

	t.Run("state mismatch", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{})
		state := begin(t, flow)

		r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=tampered", nil)
		r.AddCookie(&http.Cookie{Name: "oauth_state_fake", Value: state})

		_, err := flow.Complete(httptest.NewRecorder(), r)
		require.ErrorIs(t, err, oauth.ErrStateMismatch)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		flow := oauth.NewFlow(&fakeProvider{})
		r := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=whatever", nil)

		_, err := flow.Complete(httptest.NewRecorder(), r)
		require.ErrorIs(t, err, oauth.ErrStateMismatch)
	})
}
