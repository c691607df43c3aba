package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// MIMEOctetStream is the fallback type when detection cannot do better.
const MIMEOctetStream = "application/octet-stream"

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

type mediaClass string

const (
	classImage    mediaClass = "image"
	classDocument mediaClass = "document"
	classVideo    mediaClass = "video"
	classAudio    mediaClass = "audio"
)

// mimeInfo is the catalog of types the package understands: the extension
// generated keys get, and the class the Is* helpers check. Types without a
// class only contribute an extension.
var mimeInfo = map[string]struct {
	ext   string
	class mediaClass
}{
	"image/jpeg":    {".jpg", classImage},
	"image/png":     {".png", classImage},
	"image/gif":     {".gif", classImage},
	"image/webp":    {".webp", classImage},
	"image/svg+xml": {".svg", classImage},
	"image/bmp":     {".bmp", classImage},
	"image/tiff":    {".tiff", classImage},
	"image/x-icon":  {".ico", classImage},
	"image/heic":    {".heic", classImage},
	"image/heif":    {".heif", classImage},
	"image/avif":    {".avif", classImage},

	"application/pdf":    {".pdf", classDocument},
	"application/msword": {".doc", classDocument},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx", classDocument},
	"application/vnd.ms-excel": {".xls", classDocument},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {".xlsx", classDocument},
	"application/vnd.ms-powerpoint":                                             {".ppt", classDocument},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx", classDocument},
	"text/plain":      {".txt", classDocument},
	"text/csv":        {".csv", classDocument},
	"application/rtf": {".rtf", classDocument},

	"video/mp4":        {".mp4", classVideo},
	"video/webm":       {".webm", classVideo},
	"video/ogg":        {".ogv", classVideo},
	"video/quicktime":  {".mov", classVideo},
	"video/x-msvideo":  {".avi", classVideo},
	"video/x-matroska": {".mkv", classVideo},

	"audio/mpeg": {".mp3", classAudio},
	"audio/wav":  {".wav", classAudio},
	"audio/ogg":  {".ogg", classAudio},
	"audio/webm": {".weba", classAudio},
	"audio/aac":  {".aac", classAudio},
	"audio/flac": {".flac", classAudio},
	"audio/mp4":  {".m4a", classAudio},

	"text/html":              {ext: ".html"},
	"text/css":               {ext: ".css"},
	"application/json":       {ext: ".json"},
	"application/xml":        {ext: ".xml"},
	"application/javascript": {ext: ".js"},

	"application/zip":              {ext: ".zip"},
	"application/gzip":             {ext: ".gz"},
	"application/x-tar":            {ext: ".tar"},
	"application/x-7z-compressed":  {ext: ".7z"},
	"application/x-rar-compressed": {ext: ".rar"},
}

// DetectMIME reads the file's magic bytes and reports its type. The
// filename and its extension play no part, so a renamed executable does not
// pass as an image. Falls back to application/octet-stream.
func DetectMIME(fh *multipart.FileHeader) string {
	if fh == nil {
		return MIMEOctetStream
	}

	f, err := fh.Open()
	if err != nil {
		return MIMEOctetStream
	}
	defer f.Close()

	return detect(f)
}

// ExtFromMIME returns the preferred extension for a type, or "" for types
// outside the catalog.
func ExtFromMIME(mimeType string) string {
	return mimeInfo[normalizeMIME(mimeType)].ext
}

// IsImage reports whether the file's magic bytes identify an image.
func IsImage(fh *multipart.FileHeader) bool { return hasClass(DetectMIME(fh), classImage) }

// IsDocument reports whether the file's magic bytes identify a document.
func IsDocument(fh *multipart.FileHeader) bool { return hasClass(DetectMIME(fh), classDocument) }

// IsVideo reports whether the file's magic bytes identify a video.
func IsVideo(fh *multipart.FileHeader) bool { return hasClass(DetectMIME(fh), classVideo) }

// IsAudio reports whether the file's magic bytes identify audio.
func IsAudio(fh *multipart.FileHeader) bool { return hasClass(DetectMIME(fh), classAudio) }

func hasClass(mimeType string, want mediaClass) bool {
	info, ok := mimeInfo[normalizeMIME(mimeType)]
	return ok && info.class == want
}

// detect sniffs up to sniffLen bytes without rewinding. io.ReadFull keeps
// short reads from chunked sources from truncating the sample.
func detect(r io.Reader) string {
	buf := make([]byte, sniffLen)
	n, _ := io.ReadFull(r, buf)
	if n == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(buf[:n])
}

// detectSeekable sniffs the type and hands back a seekable body positioned
// at the start. The AWS SDK wants io.ReadSeeker to hash the payload, so
// non-seekable input is buffered whole.
func detectSeekable(r io.Reader) (string, io.ReadSeeker) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, sniffLen)
		n, _ := io.ReadFull(rs, buf)
		_, _ = rs.Seek(0, io.SeekStart)
		if n == 0 {
			return MIMEOctetStream, rs
		}
		return http.DetectContentType(buf[:n]), rs
	}

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	return http.DetectContentType(data), bytes.NewReader(data)
}

// normalizeMIME strips parameters like "; charset=utf-8" and lowercases.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME reports whether mimeType matches any allowed pattern.
// Patterns are exact types or prefix wildcards like "image/*".
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)

	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))

		if mimeType == pattern {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok && strings.HasPrefix(mimeType, prefix+"/") {
			return true
		}
	}
	return false
}
