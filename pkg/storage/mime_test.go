package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
	pdfBytes  = []byte("%PDF-1.7\n%stuff")
	zipBytes  = []byte{'P', 'K', 0x03, 0x04, 0, 0, 0, 0}
)

// newFileHeader builds a real multipart.FileHeader from in-memory content,
// the same shape handlers get from FormFile.
func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     string
	}{
		{"png by magic bytes", "a.png", pngBytes, "image/png"},
		{"jpeg by magic bytes", "a.jpg", jpegBytes, "image/jpeg"},
		{"gif by magic bytes", "a.gif", gifBytes, "image/gif"},
		{"pdf by magic bytes", "a.pdf", pdfBytes, "application/pdf"},
		{"extension does not fool detection", "fake.png", pdfBytes, "application/pdf"},
		{"plain text", "a.txt", []byte("hello world"), "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectMIME(newFileHeader(t, tt.filename, tt.content)))
		})
	}

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MIMEOctetStream, DetectMIME(nil))
	})
}

func TestClassHelpers(t *testing.T) {
	t.Parallel()

	png := newFileHeader(t, "a.png", pngBytes)
	pdf := newFileHeader(t, "a.pdf", pdfBytes)
	zip := newFileHeader(t, "a.zip", zipBytes)

	assert.True(t, IsImage(png))
	assert.False(t, IsImage(pdf))

	assert.True(t, IsDocument(pdf))
	assert.False(t, IsDocument(png))

	// Archives are in the catalog for extensions but carry no class.
	assert.False(t, IsImage(zip))
	assert.False(t, IsDocument(zip))
	assert.False(t, IsVideo(zip))
	assert.False(t, IsAudio(zip))
}

func TestExtFromMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"application/pdf", ".pdf"},
		{"application/zip", ".zip"},
		{"TEXT/PLAIN", ".txt"},
		{"text/plain; charset=utf-8", ".txt"},
		{"application/x-mystery", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtFromMIME(tt.mime), "mime %q", tt.mime)
	}
}

func TestNormalizeMIME(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/html", normalizeMIME("Text/HTML; charset=UTF-8"))
	assert.Equal(t, "image/png", normalizeMIME("  image/png  "))
	assert.Equal(t, "", normalizeMIME(""))
}

func TestMatchesMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mime    string
		allowed []string
		want    bool
	}{
		{"exact match", "image/png", []string{"image/png"}, true},
		{"wildcard match", "image/webp", []string{"image/*"}, true},
		{"wildcard wrong family", "video/mp4", []string{"image/*"}, false},
		{"case insensitive", "IMAGE/PNG", []string{"image/png"}, true},
		{"parameters ignored", "text/plain; charset=utf-8", []string{"text/plain"}, true},
		{"no sneaky prefix", "imagefake/png", []string{"image/*"}, false},
		{"empty allowed", "image/png", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matchesMIME(tt.mime, tt.allowed))
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("short content still detects", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "image/gif", detect(bytes.NewReader(gifBytes)))
	})

	t.Run("empty reader falls back", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MIMEOctetStream, detect(strings.NewReader("")))
	})
}

func TestDetectSeekable(t *testing.T) {
	t.Parallel()

	t.Run("seekable input rewinds", func(t *testing.T) {
		t.Parallel()

		r := bytes.NewReader(pngBytes)
		ct, body := detectSeekable(r)

		assert.Equal(t, "image/png", ct)

		// The body must start from the top for the upload to be complete.
		got := make([]byte, len(pngBytes))
		n, err := body.Read(got)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, got[:n])
	})

	t.Run("plain reader gets buffered", func(t *testing.T) {
		t.Parallel()

		// io.LimitReader hides Seek, forcing the buffering path.
		ct, body := detectSeekable(io.LimitReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes))))

		assert.Equal(t, "application/pdf", ct)

		got, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, pdfBytes, got)
	})

	t.Run("empty plain reader falls back", func(t *testing.T) {
		t.Parallel()

		ct, body := detectSeekable(io.LimitReader(strings.NewReader(""), 10))

		assert.Equal(t, MIMEOctetStream, ct)
		got, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
