package storage

import (
	"fmt"
	"mime/multipart"
)

// ValidationRule checks an upload before any bytes reach the backend. Size
// and the magic-byte MIME type are all any rule needs, so the same rules
// serve multipart uploads and raw readers alike.
type ValidationRule func(size int64, mimeType string) error

// FileValidationError is what a failing rule returns. Code and Details are
// stable identifiers meant for API responses and form errors; Message is
// for logs and fallback display.
type FileValidationError struct {
	Details map[string]any
	Field   string
	Code    string
	Message string
}

func (e *FileValidationError) Error() string {
	return e.Message
}

// Unwrap ties each code to its package sentinel, so errors.Is works on
// rule failures as well as errors.As.
func (e *FileValidationError) Unwrap() error {
	switch e.Code {
	case ErrCodeFileTooLarge:
		return ErrFileTooLarge
	case ErrCodeFileTooSmall:
		return ErrFileTooSmall
	case ErrCodeInvalidMIME:
		return ErrInvalidMIME
	case ErrCodeEmptyFile:
		return ErrEmptyFile
	default:
		return nil
	}
}

// Codes carried by FileValidationError.
const (
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeFileTooSmall = "file_too_small"
	ErrCodeInvalidMIME  = "invalid_mime"
	ErrCodeEmptyFile    = "empty_file"
)

// ValidateReader runs rules against a known size and detected type,
// stopping at the first failure.
func ValidateReader(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFile runs rules against a multipart upload. Detect the type with
// DetectMIME first; the header's own Content-Type is client-supplied and
// not to be trusted.
func ValidateFile(fh *multipart.FileHeader, mimeType string, rules ...ValidationRule) error {
	var size int64
	if fh != nil {
		size = fh.Size
	}
	return ValidateReader(size, mimeType, rules...)
}

// MaxSize rejects files larger than limit bytes.
func MaxSize(limit int64) ValidationRule {
	return func(size int64, _ string) error {
		if size > limit {
			return &FileValidationError{
				Field:   "file",
				Code:    ErrCodeFileTooLarge,
				Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", size, limit),
				Details: map[string]any{"limit": limit, "got": size},
			}
		}
		return nil
	}
}

// MinSize rejects files smaller than minimum bytes.
func MinSize(minimum int64) ValidationRule {
	return func(size int64, _ string) error {
		if size < minimum {
			return &FileValidationError{
				Field:   "file",
				Code:    ErrCodeFileTooSmall,
				Message: fmt.Sprintf("file size %d is below minimum of %d bytes", size, minimum),
				Details: map[string]any{"minimum": minimum, "got": size},
			}
		}
		return nil
	}
}

// NotEmpty rejects zero-byte files.
func NotEmpty() ValidationRule {
	return func(size int64, _ string) error {
		if size == 0 {
			return &FileValidationError{
				Field:   "file",
				Code:    ErrCodeEmptyFile,
				Message: "file is empty",
				Details: map[string]any{},
			}
		}
		return nil
	}
}

// AllowedTypes accepts only files matching the given MIME patterns.
// Patterns support prefix wildcards like "image/*".
func AllowedTypes(patterns ...string) ValidationRule {
	return func(_ int64, mimeType string) error {
		if !matchesMIME(mimeType, patterns) {
			return &FileValidationError{
				Field:   "file",
				Code:    ErrCodeInvalidMIME,
				Message: fmt.Sprintf("file type %q is not allowed", mimeType),
				Details: map[string]any{"type": mimeType, "allowed": patterns},
			}
		}
		return nil
	}
}

// ImageOnly accepts any image type.
func ImageOnly() ValidationRule {
	return AllowedTypes("image/*")
}

// DocumentsOnly accepts the catalog's document types: PDF, Office formats,
// plain text, CSV, and RTF.
func DocumentsOnly() ValidationRule {
	return func(_ int64, mimeType string) error {
		if !hasClass(mimeType, classDocument) {
			return &FileValidationError{
				Field:   "file",
				Code:    ErrCodeInvalidMIME,
				Message: fmt.Sprintf("file type %q is not allowed", mimeType),
				Details: map[string]any{"type": mimeType},
			}
		}
		return nil
	}
}
