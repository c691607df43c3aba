// Package mailer sends transactional email rendered from markdown
// templates.
//
// Templates live on an fs.FS as markdown files with optional YAML
// frontmatter; a TemplateSet parses and caches them, converts the body to
// HTML (with the [!button|Label](url) extension for call-to-action links),
// and wraps the result in an html/template layout. Delivery goes through a
// Sender; the resend subpackage ships the production implementation and
// LogSender prints mail to the log for development.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
)

var (
	// ErrInvalidMessage is returned for a message without recipients,
	// subject, or body.
	ErrInvalidMessage = errors.New("mailer: message is missing recipients, subject, or body")

	// ErrTemplateNotFound is returned when the named template file does not
	// exist in the set's filesystem.
	ErrTemplateNotFound = errors.New("mailer: template not found")

	// ErrLayoutNotFound is returned when the named layout file does not
	// exist in the set's filesystem.
	ErrLayoutNotFound = errors.New("mailer: layout not found")

	// ErrRender is returned when template parsing or execution fails.
	ErrRender = errors.New("mailer: render failed")

	// ErrDelivery wraps sender failures.
	ErrDelivery = errors.New("mailer: delivery failed")
)

// Message is a fully prepared email, ready for a Sender.
type Message struct {
	From        string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	To          []string
	CC          []string
	BCC         []string
	Headers     map[string]string
	Tags        map[string]string
	Attachments []Attachment
}

func (m *Message) valid() bool {
	return len(m.To) > 0 && m.Subject != "" && m.HTML != ""
}

// Attachment is one file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}

// Sender delivers prepared messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Letter describes one templated email to send. Subject is resolved from
// the override here, then the template's frontmatter, then the mailer's
// fallback; the winning subject is itself executed as a template against
// Data, so frontmatter like `subject: "Welcome, {{.Name}}"` works.
type Letter struct {
	To          []string
	Template    string
	Data        any
	Subject     string
	Layout      string
	ReplyTo     string
	CC          []string
	BCC         []string
	Tags        map[string]string
	Attachments []Attachment
}

// Mailer renders letters through a TemplateSet and hands them to a Sender.
type Mailer struct {
	sender          Sender
	templates       *TemplateSet
	defaultLayout   string
	fallbackSubject string
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithDefaultLayout sets the layout used when a Letter names none.
// The default is "base.html".
func WithDefaultLayout(name string) Option {
	return func(m *Mailer) {
		if name != "" {
			m.defaultLayout = name
		}
	}
}

// WithFallbackSubject sets the subject used when neither the Letter nor
// the template frontmatter provides one.
func WithFallbackSubject(subject string) Option {
	return func(m *Mailer) {
		if subject != "" {
			m.fallbackSubject = subject
		}
	}
}

// New creates a Mailer.
func New(sender Sender, templates *TemplateSet, opts ...Option) *Mailer {
	m := &Mailer{
		sender:          sender,
		templates:       templates,
		defaultLayout:   "base.html",
		fallbackSubject: "Notification",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send renders the letter's template and delivers the result. The plain
// text alternative is the executed markdown before HTML conversion.
func (m *Mailer) Send(ctx context.Context, l Letter) error {
	if len(l.To) == 0 {
		return ErrInvalidMessage
	}

	layout := l.Layout
	if layout == "" {
		layout = m.defaultLayout
	}
	rendered, err := m.templates.Render(l.Template, layout, l.Data)
	if err != nil {
		return err
	}

	subject := l.Subject
	if subject == "" {
		subject, _ = rendered.Meta["subject"].(string)
	}
	if subject == "" {
		subject = m.fallbackSubject
	}
	subject, err = executeSubject(subject, l.Data)
	if err != nil {
		return err
	}

	return m.Deliver(ctx, &Message{
		To:          l.To,
		CC:          l.CC,
		BCC:         l.BCC,
		ReplyTo:     l.ReplyTo,
		Subject:     subject,
		HTML:        rendered.HTML,
		Text:        rendered.Text,
		Tags:        l.Tags,
		Attachments: l.Attachments,
	})
}

// Deliver sends a prepared message as-is, bypassing template rendering.
func (m *Mailer) Deliver(ctx context.Context, msg *Message) error {
	if !msg.valid() {
		return ErrInvalidMessage
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := template.New("subject").Parse(subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject: %w", ErrRender, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: subject: %w", ErrRender, err)
	}
	return buf.String(), nil
}
