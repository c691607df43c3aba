package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/pkg/htmx"
)

func plainRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/", nil)
}

func htmxRequest() *http.Request {
	r := plainRequest()
	r.Header.Set(htmx.HeaderHXRequest, "true")
	return r
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	assert.True(t, htmx.IsHTMX(htmxRequest()))
	assert.False(t, htmx.IsHTMX(plainRequest()))

	r := plainRequest()
	r.Header.Set(htmx.HeaderHXRequest, "1")
	assert.False(t, htmx.IsHTMX(r), "only the literal \"true\" counts")
}

func TestIsBoosted(t *testing.T) {
	t.Parallel()

	r := plainRequest()
	r.Header.Set(htmx.HeaderHXBoosted, "true")
	assert.True(t, htmx.IsBoosted(r))
	assert.False(t, htmx.IsBoosted(plainRequest()))
}
