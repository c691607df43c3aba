package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("records explicit status", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)
		rw.WriteHeader(http.StatusNotFound)

		assert.Equal(t, http.StatusNotFound, rw.Status())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, rw.Written())
	})

	t.Run("first status wins", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)
		rw.WriteHeader(http.StatusOK)
		rw.WriteHeader(http.StatusNotFound)

		assert.Equal(t, http.StatusOK, rw.Status())
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("write implies 200 and counts bytes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)

		n, err := rw.Write([]byte("hello world"))
		require.NoError(t, err)
		assert.Equal(t, 11, n)
		assert.Equal(t, int64(11), rw.Size())
		assert.Equal(t, http.StatusOK, rw.Status())
		assert.True(t, rw.Written())
		assert.Equal(t, "hello world", w.Body.String())
	})

	t.Run("size accumulates across writes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)
		_, _ = rw.Write([]byte("hello "))
		_, _ = rw.Write([]byte("world"))

		assert.Equal(t, int64(11), rw.Size())
	})

	t.Run("flush reaches the underlying writer", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)
		rw.Flush()

		assert.True(t, w.Flushed)
	})

	t.Run("unwrap exposes the wrapped writer", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)

		assert.Same(t, http.ResponseWriter(w), rw.Unwrap())
	})

	t.Run("header passes through", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		rw := newResponseWriter(w)
		rw.Header().Set("X-Request-Id", "abc123")

		assert.Equal(t, "abc123", w.Header().Get("X-Request-Id"))
	})
}
