package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// TemplateSet loads markdown mail templates and HTML layouts from a
// filesystem. Parsed files are cached; Render executes against fresh data
// every call, so a set is safe for concurrent use.
type TemplateSet struct {
	fsys      fs.FS
	layoutDir string

	mu        sync.RWMutex
	templates map[string]*mailTemplate
	layouts   map[string]*htmltemplate.Template
}

type mailTemplate struct {
	meta map[string]any
	body *template.Template
}

// TemplateSetOption configures a TemplateSet.
type TemplateSetOption func(*TemplateSet)

// WithLayoutDir sets the directory layouts are read from, relative to the
// filesystem root. The default is "layouts".
func WithLayoutDir(dir string) TemplateSetOption {
	return func(s *TemplateSet) {
		if dir != "" {
			s.layoutDir = dir
		}
	}
}

// NewTemplateSet creates a set reading templates from the root of fsys.
func NewTemplateSet(fsys fs.FS, opts ...TemplateSetOption) *TemplateSet {
	s := &TemplateSet{
		fsys:      fsys,
		layoutDir: "layouts",
		templates: make(map[string]*mailTemplate),
		layouts:   make(map[string]*htmltemplate.Template),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rendered is the product of one template execution.
type Rendered struct {
	Meta map[string]any
	HTML string
	Text string
}

// Render executes the named template with data, converts the markdown to
// HTML, and wraps it in the named layout. The layout executes with
// .Content (the converted markdown, pre-escaped) and .Meta (the template's
// frontmatter).
func (s *TemplateSet) Render(name, layout string, data any) (*Rendered, error) {
	tmpl, err := s.template(name)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := tmpl.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}

	body, err := markdownToHTML(markdown.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}

	lt, err := s.layout(layout)
	if err != nil {
		return nil, err
	}
	var html bytes.Buffer
	err = lt.Execute(&html, map[string]any{
		"Content": htmltemplate.HTML(body),
		"Meta":    tmpl.meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrRender, layout, err)
	}

	return &Rendered{
		Meta: tmpl.meta,
		HTML: html.String(),
		Text: strings.TrimSpace(markdown.String()),
	}, nil
}

func (s *TemplateSet) template(name string) (*mailTemplate, error) {
	s.mu.RLock()
	cached, ok := s.templates[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	parsed, err := template.New(name).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}

	tmpl := &mailTemplate{meta: meta, body: parsed}
	s.mu.Lock()
	// A concurrent loader may have won; either parse is equivalent.
	s.templates[name] = tmpl
	s.mu.Unlock()
	return tmpl, nil
}

func (s *TemplateSet) layout(name string) (*htmltemplate.Template, error) {
	s.mu.RLock()
	cached, ok := s.layouts[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	file := path.Join(s.layoutDir, name)
	raw, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	parsed, err := htmltemplate.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrRender, name, err)
	}

	s.mu.Lock()
	s.layouts[name] = parsed
	s.mu.Unlock()
	return parsed, nil
}

const frontmatterFence = "---"

// splitFrontmatter separates an optional YAML frontmatter block from the
// markdown body. Files without a leading fence are all body. Keys are
// lowercased so frontmatter lookups are case-insensitive.
func splitFrontmatter(raw []byte) (map[string]any, string, error) {
	content := string(raw)
	if !strings.HasPrefix(content, frontmatterFence) {
		return map[string]any{}, content, nil
	}

	rest := strings.TrimPrefix(content, frontmatterFence)
	rest = strings.TrimLeft(rest, "\r\n")
	end := strings.Index(rest, frontmatterFence)
	if end < 0 {
		return nil, "", fmt.Errorf("frontmatter fence is never closed")
	}

	var meta map[string]any
	if block := strings.TrimSpace(rest[:end]); block != "" {
		if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
			return nil, "", fmt.Errorf("frontmatter: %w", err)
		}
	}
	lowered := make(map[string]any, len(meta))
	for k, v := range meta {
		lowered[strings.ToLower(k)] = v
	}

	body := rest[end+len(frontmatterFence):]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r\n"), "\n")
	return lowered, body, nil
}
