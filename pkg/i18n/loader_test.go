package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/i18n"
)

func TestWithYAMLDir(t *testing.T) {
	t.Parallel()

	t.Run("loads lang dirs and namespaces", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/common.yaml": &fstest.MapFile{Data: []byte("greeting: Hello\nnav:\n  home: Home\n")},
			"en/errors.yml":  &fstest.MapFile{Data: []byte("not_found: Not found\n")},
			"de/common.yaml": &fstest.MapFile{Data: []byte("greeting: Hallo\n")},
			"de/notes.txt":   &fstest.MapFile{Data: []byte("ignored")},
		}
		svc, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.NoError(t, err)

		assert.Equal(t, "Hello", svc.T("en", "common", "greeting"))
		assert.Equal(t, "Home", svc.T("en", "common", "nav.home"))
		assert.Equal(t, "Not found", svc.T("en", "errors", "not_found"))
		assert.Equal(t, "Hallo", svc.T("de", "common", "greeting"))
	})

	t.Run("file outside language dir fails", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"stray.yaml": &fstest.MapFile{Data: []byte("k: v\n")},
		}
		_, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("broken yaml fails", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/common.yaml": &fstest.MapFile{Data: []byte(":\n  - ][\n")},
		}
		_, err := i18n.New(i18n.WithYAMLDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}

func TestWithJSONDir(t *testing.T) {
	t.Parallel()

	t.Run("loads nested json", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.json": &fstest.MapFile{Data: []byte(`{"title":"App","menu":{"exit":"Exit"}}`)},
		}
		svc, err := i18n.New(i18n.WithJSONDir(fsys))
		require.NoError(t, err)
		assert.Equal(t, "App", svc.T("en", "app", "title"))
		assert.Equal(t, "Exit", svc.T("en", "app", "menu.exit"))
	})

	t.Run("broken json fails", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.json": &fstest.MapFile{Data: []byte(`{"title":`)},
		}
		_, err := i18n.New(i18n.WithJSONDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}
