package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRuleFails(t *testing.T, err error, code string) *FileValidationError {
	t.Helper()

	var verr *FileValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, code, verr.Code)
	assert.Equal(t, "file", verr.Field)
	assert.NotEmpty(t, verr.Message)
	return verr
}

func TestMaxSize(t *testing.T) {
	t.Parallel()

	rule := MaxSize(1024)

	assert.NoError(t, rule(512, ""))
	assert.NoError(t, rule(1024, ""))

	verr := assertRuleFails(t, rule(2048, ""), ErrCodeFileTooLarge)
	assert.Equal(t, int64(1024), verr.Details["limit"])
	assert.Equal(t, int64(2048), verr.Details["got"])
}

func TestMinSize(t *testing.T) {
	t.Parallel()

	rule := MinSize(100)

	assert.NoError(t, rule(100, ""))
	assert.NoError(t, rule(5000, ""))

	assertRuleFails(t, rule(50, ""), ErrCodeFileTooSmall)
}

func TestNotEmpty(t *testing.T) {
	t.Parallel()

	rule := NotEmpty()

	assert.NoError(t, rule(1, ""))
	assertRuleFails(t, rule(0, ""), ErrCodeEmptyFile)
}

func TestAllowedTypes(t *testing.T) {
	t.Parallel()

	rule := AllowedTypes("image/*", "application/pdf")

	assert.NoError(t, rule(0, "image/png"))
	assert.NoError(t, rule(0, "image/webp"))
	assert.NoError(t, rule(0, "application/pdf"))

	verr := assertRuleFails(t, rule(0, "video/mp4"), ErrCodeInvalidMIME)
	assert.Equal(t, "video/mp4", verr.Details["type"])
}

func TestImageOnly(t *testing.T) {
	t.Parallel()

	rule := ImageOnly()

	assert.NoError(t, rule(0, "image/png"))
	assert.NoError(t, rule(0, "image/x-obscure"))
	assertRuleFails(t, rule(0, "application/pdf"), ErrCodeInvalidMIME)
}

func TestDocumentsOnly(t *testing.T) {
	t.Parallel()

	rule := DocumentsOnly()

	assert.NoError(t, rule(0, "application/pdf"))
	assert.NoError(t, rule(0, "text/plain; charset=utf-8"))
	assert.NoError(t, rule(0, "text/csv"))

	assertRuleFails(t, rule(0, "image/png"), ErrCodeInvalidMIME)
	assertRuleFails(t, rule(0, "application/zip"), ErrCodeInvalidMIME)
}

func TestValidateReader(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateReader(1024, "image/jpeg", MaxSize(1<<20), ImageOnly(), NotEmpty()))
	})

	t.Run("no rules is a pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateReader(1024, "image/jpeg"))
	})

	t.Run("first failure wins", func(t *testing.T) {
		t.Parallel()

		err := ValidateReader(2048, "video/mp4", MaxSize(1024), ImageOnly())
		assertRuleFails(t, err, ErrCodeFileTooLarge)
	})
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	t.Run("uses the header size", func(t *testing.T) {
		t.Parallel()

		fh := newFileHeader(t, "a.png", pngBytes)
		assert.NoError(t, ValidateFile(fh, "image/png", MaxSize(1024), ImageOnly()))
		assertRuleFails(t, ValidateFile(fh, "image/png", MaxSize(4)), ErrCodeFileTooLarge)
	})

	t.Run("nil header counts as empty", func(t *testing.T) {
		t.Parallel()
		assertRuleFails(t, ValidateFile(nil, "", NotEmpty()), ErrCodeEmptyFile)
	})
}

func TestFileValidationErrorMatchesBothWays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"too large", MaxSize(1)(2, ""), ErrFileTooLarge},
		{"too small", MinSize(10)(2, ""), ErrFileTooSmall},
		{"empty", NotEmpty()(0, ""), ErrEmptyFile},
		{"bad type", ImageOnly()(0, "text/plain"), ErrInvalidMIME},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, tt.err, tt.sentinel)

			var verr *FileValidationError
			require.ErrorAs(t, tt.err, &verr)
			assert.Equal(t, verr.Message, tt.err.Error())
		})
	}
}
