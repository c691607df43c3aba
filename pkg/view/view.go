// Package view renders HTML pages from an fs.FS with layouts and partials.
//
// Pages live under the configured root, layouts and partials in their own
// subdirectories. When the configured layout exists, a page fills its
// {{template "content" .}} slot by declaring {{define "content"}}; without
// a layout the page renders standalone. Parsed templates are cached; each
// render clones the cached set so request-scoped helper functions can be
// bound without races.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
)

const (
	defaultExt         = ".html"
	defaultLayout      = "layouts/base.html"
	defaultPartialsDir = "partials"

	// contentBlock is the template name a page defines for the layout to
	// include.
	contentBlock = "content"
)

// Engine loads, caches, and renders page templates.
type Engine struct {
	fsys        fs.FS
	root        string
	layout      string
	partialsDir string
	ext         string
	baseFuncs   template.FuncMap
	cache       map[string]*template.Template
	mu          sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithRoot sets the directory within the filesystem that holds templates,
// e.g. "resources/views".
func WithRoot(dir string) Option {
	return func(e *Engine) {
		e.root = dir
	}
}

// WithLayout sets the layout template path relative to the root.
// Defaults to "layouts/base.html". An empty value disables layouts.
func WithLayout(name string) Option {
	return func(e *Engine) {
		e.layout = name
	}
}

// WithPartials sets the directory (relative to the root) whose templates
// parse into every page. Defaults to "partials".
func WithPartials(dir string) Option {
	return func(e *Engine) {
		e.partialsDir = dir
	}
}

// WithExt sets the template file extension. Defaults to ".html".
func WithExt(ext string) Option {
	return func(e *Engine) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithFuncs registers additional template functions available to every
// template. Function names must be registered here (or be one of the
// built-in helper names) before a template that calls them can parse;
// implementations may be swapped per render.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.baseFuncs[name] = fn
		}
	}
}

// New creates an Engine over the given filesystem.
func New(fsys fs.FS, opts ...Option) (*Engine, error) {
	if fsys == nil {
		return nil, ErrInvalidFS
	}

	e := &Engine{
		fsys:        fsys,
		layout:      defaultLayout,
		partialsDir: defaultPartialsDir,
		ext:         defaultExt,
		baseFuncs:   helperStubs(),
		cache:       make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.root != "" {
		if _, err := fs.Stat(e.fsys, e.root); err != nil {
			return nil, fmt.Errorf("%w: root %q: %v", ErrInvalidFS, e.root, err)
		}
	}
	return e, nil
}

// Render executes the named page with the given data. The funcs map
// overrides helper implementations for this render only; the cached parse
// is never mutated. The name may omit the file extension.
func (e *Engine) Render(name string, data map[string]any, funcs map[string]any) (string, error) {
	cached, err := e.load(name)
	if err != nil {
		return "", err
	}

	// The cached set is never executed directly; execution locks a
	// template against further cloning.
	tmpl, err := cached.Clone()
	if err != nil {
		return "", fmt.Errorf("%w: clone %s: %v", ErrRenderFailed, name, err)
	}
	if len(funcs) > 0 {
		tmpl = tmpl.Funcs(funcs)
	}

	target := path.Base(e.pagePath(name))
	if e.layout != "" && tmpl.Lookup(path.Base(e.layout)) != nil {
		target = path.Base(e.layout)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, target, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	return buf.String(), nil
}

// pagePath resolves a render name to a file path within the filesystem.
func (e *Engine) pagePath(name string) string {
	if !strings.Contains(path.Base(name), ".") {
		name += e.ext
	}
	return path.Join(e.root, name)
}

// load returns the parsed template set for a page, parsing and caching it
// on first use.
func (e *Engine) load(name string) (*template.Template, error) {
	e.mu.RLock()
	if cached, ok := e.cache[name]; ok {
		e.mu.RUnlock()
		return cached, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := e.cache[name]; ok {
		return cached, nil
	}

	page := e.pagePath(name)
	if _, err := fs.Stat(e.fsys, page); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	files := make([]string, 0, 8)
	if e.layout != "" {
		layout := path.Join(e.root, e.layout)
		if _, err := fs.Stat(e.fsys, layout); err == nil {
			files = append(files, layout)
		}
	}
	if e.partialsDir != "" {
		partials, _ := fs.Glob(e.fsys, path.Join(e.root, e.partialsDir, "*"+e.ext))
		files = append(files, partials...)
	}
	files = append(files, page)

	tmpl, err := template.New(path.Base(page)).Funcs(e.baseFuncs).ParseFS(e.fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}

	e.cache[name] = tmpl
	return tmpl, nil
}

// helperStubs declares the standard helper names so templates that call
// them parse without a request context. Real implementations are bound per
// render.
func helperStubs() template.FuncMap {
	return template.FuncMap{
		"csrf_token": func() string { return "" },
		"csrf_field": func() template.HTML { return "" },
		"route":      func(string, ...any) string { return "" },
		"old":        func(string) string { return "" },
		"errors":     func() []string { return nil },
		"flash":      func(string) string { return "" },
		"t":          func(string) string { return "" },
		"auth":       func() bool { return false },
		"user_id":    func() string { return "" },
	}
}
