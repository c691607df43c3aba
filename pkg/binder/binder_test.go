package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/binder"
)

type signupForm struct {
	Name     string  `form:"name" query:"name" json:"name"`
	Email    string  `form:"email" query:"email" json:"email"`
	Age      int     `form:"age" query:"age" json:"age"`
	Rating   float64 `form:"rating"`
	Agree    bool    `form:"agree"`
	Tags     []string `form:"tags" query:"tags"`
	Nickname *string `form:"nickname"`
}

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{
			"name":   {"Alice"},
			"email":  {"alice@example.com"},
			"age":    {"30"},
			"rating": {"4.5"},
			"agree":  {"on"},
			"tags":   {"go", "web"},
		})

		var f signupForm
		require.NoError(t, binder.Form()(req, &f))
		assert.Equal(t, "Alice", f.Name)
		assert.Equal(t, "alice@example.com", f.Email)
		assert.Equal(t, 30, f.Age)
		assert.InDelta(t, 4.5, f.Rating, 0.001)
		assert.True(t, f.Agree)
		assert.Equal(t, []string{"go", "web"}, f.Tags)
	})

	t.Run("binds pointer field", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"nickname": {"ali"}})

		var f signupForm
		require.NoError(t, binder.Form()(req, &f))
		require.NotNil(t, f.Nickname)
		assert.Equal(t, "ali", *f.Nickname)
	})

	t.Run("missing fields keep zero values", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"name": {"Bob"}})

		var f signupForm
		require.NoError(t, binder.Form()(req, &f))
		assert.Equal(t, "Bob", f.Name)
		assert.Zero(t, f.Age)
		assert.Nil(t, f.Nickname)
	})

	t.Run("empty value leaves numeric field zero", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"age": {""}})

		var f signupForm
		require.NoError(t, binder.Form()(req, &f))
		assert.Zero(t, f.Age)
	})

	t.Run("reports unparseable value with field name", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"age": {"abc"}})

		var f signupForm
		err := binder.Form()(req, &f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Age")
	})

	t.Run("untagged field binds by name", func(t *testing.T) {
		t.Parallel()

		type form struct{ Title string }
		req := formRequest(t, url.Values{"Title": {"hello"}})

		var f form
		require.NoError(t, binder.Form()(req, &f))
		assert.Equal(t, "hello", f.Title)
	})

	t.Run("dash tag skips field", func(t *testing.T) {
		t.Parallel()

		type form struct {
			Secret string `form:"-"`
		}
		req := formRequest(t, url.Values{"-": {"oops"}, "Secret": {"oops"}})

		var f form
		require.NoError(t, binder.Form()(req, &f))
		assert.Empty(t, f.Secret)
	})

	t.Run("binds time and duration", func(t *testing.T) {
		t.Parallel()

		type form struct {
			Published time.Time     `form:"published"`
			Timeout   time.Duration `form:"timeout"`
		}
		req := formRequest(t, url.Values{
			"published": {"2024-06-01"},
			"timeout":   {"30s"},
		})

		var f form
		require.NoError(t, binder.Form()(req, &f))
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), f.Published)
		assert.Equal(t, 30*time.Second, f.Timeout)
	})

	t.Run("binds datetime-local input", func(t *testing.T) {
		t.Parallel()

		type form struct {
			StartsAt time.Time `form:"starts_at"`
		}
		req := formRequest(t, url.Values{"starts_at": {"2024-06-01T14:30"}})

		var f form
		require.NoError(t, binder.Form()(req, &f))
		assert.Equal(t, time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), f.StartsAt)
	})

	t.Run("rejects non-struct target", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"name": {"x"}})

		var s string
		assert.ErrorIs(t, binder.Form()(req, &s), binder.ErrInvalidTarget)
	})

	t.Run("rejects nil target", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{})

		var f *signupForm
		assert.ErrorIs(t, binder.Form()(req, f), binder.ErrInvalidTarget)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds query parameters", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search?name=Carol&age=25&tags=a&tags=b", nil)

		var f signupForm
		require.NoError(t, binder.Query()(req, &f))
		assert.Equal(t, "Carol", f.Name)
		assert.Equal(t, 25, f.Age)
		assert.Equal(t, []string{"a", "b"}, f.Tags)
	})

	t.Run("ignores form body", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"name": {"FromBody"}})

		var f signupForm
		require.NoError(t, binder.Query()(req, &f))
		assert.Empty(t, f.Name)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()

		body := `{"name":"Dave","email":"dave@example.com","age":40}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		var f signupForm
		require.NoError(t, binder.JSON()(req, &f))
		assert.Equal(t, "Dave", f.Name)
		assert.Equal(t, "dave@example.com", f.Email)
		assert.Equal(t, 40, f.Age)
	})

	t.Run("empty body binds nothing", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		var f signupForm
		require.NoError(t, binder.JSON()(req, &f))
		assert.Empty(t, f.Name)
	})

	t.Run("malformed body returns error", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

		var f signupForm
		assert.Error(t, binder.JSON()(req, &f))
	})
}
