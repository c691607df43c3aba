package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage records Put calls so the helpers can be tested without a
// bucket.
type fakeStorage struct {
	puts   int
	data   []byte
	size   int64
	opts   putOptions
	putErr error
}

func (f *fakeStorage) Put(_ context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	f.puts++
	if f.putErr != nil {
		return nil, f.putErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.data = data
	f.size = size

	f.opts = putOptions{}
	for _, opt := range opts {
		opt(&f.opts)
	}

	return &FileInfo{Key: "fake-key", Size: size}, nil
}

func (f *fakeStorage) Get(context.Context, string) (io.ReadCloser, error) { return nil, ErrNotFound }
func (f *fakeStorage) Delete(context.Context, string) error               { return nil }
func (f *fakeStorage) URL(context.Context, string, ...URLOption) (string, error) {
	return "", ErrNotFound
}

func TestPutFile(t *testing.T) {
	t.Parallel()

	t.Run("streams the file through", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		fh := newFileHeader(t, "a.png", pngBytes)

		info, err := PutFile(context.Background(), fake, fh, WithPrefix("avatars"))
		require.NoError(t, err)

		assert.Equal(t, "fake-key", info.Key)
		assert.Equal(t, pngBytes, fake.data)
		assert.Equal(t, int64(len(pngBytes)), fake.size)
		assert.Equal(t, "avatars", fake.opts.prefix)
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		_, err := PutFile(context.Background(), fake, nil)

		require.ErrorIs(t, err, ErrEmptyFile)
		assert.Zero(t, fake.puts)
	})

	t.Run("validation failure never reaches the backend", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		fh := newFileHeader(t, "a.pdf", pdfBytes)

		_, err := PutFile(context.Background(), fake, fh, WithValidation(ImageOnly()))

		var verr *FileValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ErrCodeInvalidMIME, verr.Code)
		assert.Zero(t, fake.puts)
	})

	t.Run("validation pins the detected type", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		fh := newFileHeader(t, "renamed.txt", pngBytes)

		_, err := PutFile(context.Background(), fake, fh, WithValidation(ImageOnly()))
		require.NoError(t, err)

		assert.Equal(t, "image/png", fake.opts.contentType)
	})
}

func TestPutBytes(t *testing.T) {
	t.Parallel()

	t.Run("uploads data", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		info, err := PutBytes(context.Background(), fake, jpegBytes, WithTenant("t1"))
		require.NoError(t, err)

		assert.Equal(t, int64(len(jpegBytes)), info.Size)
		assert.Equal(t, jpegBytes, fake.data)
		assert.Equal(t, "t1", fake.opts.tenant)
	})

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		_, err := PutBytes(context.Background(), fake, nil)

		require.ErrorIs(t, err, ErrEmptyFile)
		assert.Zero(t, fake.puts)
	})
}

func TestPutFromURL(t *testing.T) {
	t.Parallel()

	t.Run("downloads and stores", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(pngBytes)
		}))
		defer srv.Close()

		fake := &fakeStorage{}
		info, err := PutFromURL(context.Background(), fake, srv.URL, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(len(pngBytes)), info.Size)
		assert.Equal(t, pngBytes, fake.data)
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		fake := &fakeStorage{}
		_, err := PutFromURL(context.Background(), fake, "ftp://example.com/f.png", 0)

		require.ErrorIs(t, err, ErrInvalidURL)
		assert.Zero(t, fake.puts)
	})

	t.Run("non-200 responses fail", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := PutFromURL(context.Background(), &fakeStorage{}, srv.URL, 0)
		require.ErrorIs(t, err, ErrDownloadFailed)
	})

	t.Run("declared oversize is rejected before the body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
			_, _ = w.Write(pdfBytes)
		}))
		defer srv.Close()

		_, err := PutFromURL(context.Background(), &fakeStorage{}, srv.URL, 4)
		require.ErrorIs(t, err, ErrDownloadTooLarge)
	})

	t.Run("undeclared oversize is caught while reading", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			// Flush first so no Content-Length gets set.
			w.WriteHeader(http.StatusOK)
			if fl, ok := w.(http.Flusher); ok {
				fl.Flush()
			}
			_, _ = w.Write(pdfBytes)
		}))
		defer srv.Close()

		_, err := PutFromURL(context.Background(), &fakeStorage{}, srv.URL, 4)
		require.ErrorIs(t, err, ErrDownloadTooLarge)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		_, err := PutFromURL(context.Background(), &fakeStorage{}, srv.URL, 0)
		require.ErrorIs(t, err, ErrEmptyFile)
	})
}
