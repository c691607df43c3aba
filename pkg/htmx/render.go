package htmx

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Renderable is anything that can write itself as HTML. templ components
// satisfy it, which is the usual source of out-of-band fragments.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Config accumulates the htmx response headers a handler wants to send and
// the out-of-band fragments to append after the main content.
type Config struct {
	OOBComponents       []Renderable
	Retarget            string
	Reswap              SwapStrategy
	Reselect            string
	PushURL             string
	ReplaceURL          string
	Triggers            []string
	TriggersAfterSwap   []string
	TriggersAfterSettle []string
	Refresh             bool
}

// RenderOption mutates a Config.
type RenderOption func(*Config)

// NewConfig folds opts into a Config.
func NewConfig(opts ...RenderOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply writes the configured htmx headers into h. Call it before the body
// goes out, whether h is an http.ResponseWriter's header map or a framework
// response's:
//
//	cfg := htmx.NewConfig(htmx.WithRetarget("#list"), htmx.WithTrigger("list:changed"))
//	cfg.Apply(w.Header())
func (c *Config) Apply(h http.Header) {
	if c == nil {
		return
	}

	if c.Retarget != "" {
		h.Set(HeaderHXRetarget, c.Retarget)
	}
	if c.Reswap != "" {
		h.Set(HeaderHXReswap, string(c.Reswap))
	}
	if c.Reselect != "" {
		h.Set(HeaderHXReselect, c.Reselect)
	}
	if c.PushURL != "" {
		h.Set(HeaderHXPushURL, c.PushURL)
	}
	if c.ReplaceURL != "" {
		h.Set(HeaderHXReplaceURL, c.ReplaceURL)
	}
	if len(c.Triggers) > 0 {
		h.Set(HeaderHXTrigger, strings.Join(c.Triggers, ", "))
	}
	if len(c.TriggersAfterSwap) > 0 {
		h.Set(HeaderHXTriggerAfterSwap, strings.Join(c.TriggersAfterSwap, ", "))
	}
	if len(c.TriggersAfterSettle) > 0 {
		h.Set(HeaderHXTriggerAfterSettle, strings.Join(c.TriggersAfterSettle, ", "))
	}
	if c.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}
}

// RenderOOB writes every out-of-band component to w in order. Call it after
// the main content; each fragment must carry id and hx-swap-oob attributes
// or htmx will ignore it.
func (c *Config) RenderOOB(ctx context.Context, w io.Writer) error {
	if c == nil {
		return nil
	}
	for _, component := range c.OOBComponents {
		if err := component.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// WithOOB appends fragments rendered after the main content.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) {
		c.OOBComponents = append(c.OOBComponents, components...)
	}
}

// WithRetarget swaps the response into selector instead of the requesting
// element's target.
func WithRetarget(selector string) RenderOption {
	return func(c *Config) { c.Retarget = selector }
}

// WithReswap overrides the swap strategy for this response.
func WithReswap(strategy SwapStrategy) RenderOption {
	return func(c *Config) { c.Reswap = strategy }
}

// WithReselect swaps in only the part of the response matching selector.
func WithReselect(selector string) RenderOption {
	return func(c *Config) { c.Reselect = selector }
}

// WithPushURL pushes url onto the browser history. "false" suppresses the
// push htmx would otherwise do.
func WithPushURL(url string) RenderOption {
	return func(c *Config) { c.PushURL = url }
}

// WithReplaceURL replaces the current history entry with url. "false"
// suppresses replacement.
func WithReplaceURL(url string) RenderOption {
	return func(c *Config) { c.ReplaceURL = url }
}

// WithTrigger fires client-side events when the response arrives.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) { c.Triggers = append(c.Triggers, events...) }
}

// WithTriggerAfterSwap fires events once the swap has happened.
func WithTriggerAfterSwap(events ...string) RenderOption {
	return func(c *Config) { c.TriggersAfterSwap = append(c.TriggersAfterSwap, events...) }
}

// WithTriggerAfterSettle fires events after the settle phase.
func WithTriggerAfterSettle(events ...string) RenderOption {
	return func(c *Config) { c.TriggersAfterSettle = append(c.TriggersAfterSettle, events...) }
}

// WithRefresh makes the client do a full page reload.
func WithRefresh() RenderOption {
	return func(c *Config) { c.Refresh = true }
}
