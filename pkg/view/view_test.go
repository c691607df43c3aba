package view_test

import (
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/view"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil filesystem", func(t *testing.T) {
		t.Parallel()

		_, err := view.New(nil)
		assert.ErrorIs(t, err, view.ErrInvalidFS)
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		_, err := view.New(mapFS(map[string]string{"home.html": "hi"}), view.WithRoot("resources/views"))
		assert.ErrorIs(t, err, view.ErrInvalidFS)
	})

	t.Run("valid root", func(t *testing.T) {
		t.Parallel()

		fsys := mapFS(map[string]string{"resources/views/home.html": "hi"})
		e, err := view.New(fsys, view.WithRoot("resources/views"))
		require.NoError(t, err)
		require.NotNil(t, e)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("standalone page without layout file", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"home.html": "<h1>{{.Title}}</h1>",
		}))
		require.NoError(t, err)

		out, err := e.Render("home", map[string]any{"Title": "Welcome"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "<h1>Welcome</h1>", out)
	})

	t.Run("page fills layout content block", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"layouts/base.html": `<html><body>{{template "content" .}}</body></html>`,
			"home.html":         `{{define "content"}}<p>{{.Msg}}</p>{{end}}`,
		}))
		require.NoError(t, err)

		out, err := e.Render("home", map[string]any{"Msg": "hello"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "<html><body><p>hello</p></body></html>", out)
	})

	t.Run("partials parse into every page", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"layouts/base.html": `{{template "header" .}}{{template "content" .}}`,
			"partials/nav.html": `{{define "header"}}<nav>site</nav>{{end}}`,
			"home.html":         `{{define "content"}}body{{end}}`,
		}))
		require.NoError(t, err)

		out, err := e.Render("home", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "<nav>site</nav>body", out)
	})

	t.Run("nested page name", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"users/show.html": "user {{.Name}}",
		}))
		require.NoError(t, err)

		out, err := e.Render("users/show", map[string]any{"Name": "ann"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "user ann", out)
	})

	t.Run("data is escaped", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"home.html": "{{.Input}}",
		}))
		require.NoError(t, err)

		out, err := e.Render("home", map[string]any{"Input": "<script>x</script>"}, nil)
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "&lt;script&gt;")
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{"home.html": "hi"}))
		require.NoError(t, err)

		_, err = e.Render("missing", nil, nil)
		assert.ErrorIs(t, err, view.ErrTemplateNotFound)
	})

	t.Run("repeated renders reuse the cached parse", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{"home.html": "n={{.N}}"}))
		require.NoError(t, err)

		for i, want := range []string{"n=1", "n=2"} {
			out, err := e.Render("home", map[string]any{"N": i + 1}, nil)
			require.NoError(t, err)
			assert.Equal(t, want, out)
		}
	})

	t.Run("root prefix applies", func(t *testing.T) {
		t.Parallel()

		fsys := mapFS(map[string]string{"resources/views/home.html": "rooted"})
		e, err := view.New(fsys, view.WithRoot("resources/views"))
		require.NoError(t, err)

		out, err := e.Render("home", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "rooted", out)
	})
}

func TestRenderFuncs(t *testing.T) {
	t.Parallel()

	t.Run("helper stubs let templates parse", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"form.html": `<form>{{csrf_field}}</form>`,
		}))
		require.NoError(t, err)

		out, err := e.Render("form", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "<form></form>", out)
	})

	t.Run("per-render funcs override stubs", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"form.html": `<form>{{csrf_field}}</form>`,
		}))
		require.NoError(t, err)

		out, err := e.Render("form", nil, map[string]any{
			"csrf_field": func() template.HTML {
				return `<input type="hidden" name="_token" value="abc">`
			},
		})
		require.NoError(t, err)
		assert.Contains(t, out, `value="abc"`)
	})

	t.Run("per-render funcs do not leak between renders", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"hello.html": `{{t "greeting"}}`,
		}))
		require.NoError(t, err)

		out, err := e.Render("hello", nil, map[string]any{
			"t": func(string) string { return "hola" },
		})
		require.NoError(t, err)
		assert.Equal(t, "hola", out)

		out, err = e.Render("hello", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("custom funcs registered at construction", func(t *testing.T) {
		t.Parallel()

		e, err := view.New(mapFS(map[string]string{
			"shout.html": `{{upper .Word}}`,
		}), view.WithFuncs(template.FuncMap{
			"upper": strings.ToUpper,
		}))
		require.NoError(t, err)

		out, err := e.Render("shout", map[string]any{"Word": "go"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "GO", out)
	})
}
