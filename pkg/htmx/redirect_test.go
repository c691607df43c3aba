package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/pkg/htmx"
)

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("htmx client gets 200 with HX-Redirect", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		htmx.Redirect(rec, htmxRequest(), "/login")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(htmx.HeaderHXRedirect))
		assert.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("plain client gets a 302", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		htmx.Redirect(rec, plainRequest(), "/login")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.Empty(t, rec.Header().Get(htmx.HeaderHXRedirect))
	})
}

func TestRedirectWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("plain client gets the chosen status", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		htmx.RedirectWithStatus(rec, plainRequest(), "/moved", http.StatusMovedPermanently)

		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/moved", rec.Header().Get("Location"))
	})

	t.Run("htmx client still gets 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		htmx.RedirectWithStatus(rec, htmxRequest(), "/moved", http.StatusMovedPermanently)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/moved", rec.Header().Get(htmx.HeaderHXRedirect))
	})
}

func TestRedirectBack(t *testing.T) {
	t.Parallel()

	t.Run("uses the redirect query parameter", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/save?redirect=%2Fsettings", nil)

		htmx.RedirectBack(rec, req, "/home")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/settings", rec.Header().Get("Location"))
	})

	t.Run("falls back when the parameter is missing", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		htmx.RedirectBack(rec, plainRequest(), "/home")

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/home", rec.Header().Get("Location"))
	})

	t.Run("htmx client navigates via header", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/save?redirect=%2Fsettings", nil)
		req.Header.Set(htmx.HeaderHXRequest, "true")

		htmx.RedirectBack(rec, req, "/home")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/settings", rec.Header().Get(htmx.HeaderHXRedirect))
	})
}
