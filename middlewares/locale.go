package middlewares

import (
	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/i18n"
)

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	FormatMap     map[string]*i18n.LocaleFormat
	DefaultFormat *i18n.LocaleFormat
	Namespace     string
	Extractor     internal.Extractor
	extractorSet  bool
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithLocaleNamespace sets the default namespace for the context translator.
func WithLocaleNamespace(ns string) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Namespace = ns
	}
}

// WithLocaleExtractor sets a custom language extractor chain.
func WithLocaleExtractor(ext internal.Extractor) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithLocaleFormats sets the language-to-format mapping.
func WithLocaleFormats(m map[string]*i18n.LocaleFormat) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.FormatMap = m
	}
}

// WithLocaleDefaultFormat sets the fallback locale format.
func WithLocaleDefaultFormat(f *i18n.LocaleFormat) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.DefaultFormat = f
	}
}

// FromAcceptLanguage returns an ExtractorSource that parses the Accept-Language
// header and matches against the available languages.
func FromAcceptLanguage(available []string) internal.ExtractorSource {
	return func(c *internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		lang := i18n.ParseAcceptLanguage(header, available)
		return lang, true
	}
}

// Locale returns middleware that resolves the request language, builds a
// Translator bound to it, and stores both on the context. c.T, c.Tn, and
// the template translation helpers read from there; without this middleware
// they fall back to the default language.
func Locale(svc *i18n.I18n, opts ...LocaleOption) internal.Middleware {
	cfg := &LocaleConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default resolution order: lang cookie, then Accept-Language
	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromCookie("lang"),
			FromAcceptLanguage(svc.Languages()),
		)
	}

	if cfg.DefaultFormat == nil {
		cfg.DefaultFormat = i18n.FormatEnUS()
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		lang, ok := cfg.Extractor.Extract(c)
		if !ok || lang == "" {
			lang = svc.DefaultLanguage()
		}

		format := cfg.DefaultFormat
		if cfg.FormatMap != nil {
			if f, exists := cfg.FormatMap[lang]; exists {
				format = f
			}
		}

		tr := i18n.NewTranslator(svc, lang, cfg.Namespace, format)

		c.Set(internal.TranslatorKey{}, tr)
		c.Set(internal.LanguageKey{}, lang)

		return nil
	})
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the Locale middleware is not used.
func GetTranslator(c *internal.Context) *i18n.Translator {
	if v, ok := c.Get(internal.TranslatorKey{}).(*i18n.Translator); ok {
		return v
	}
	return nil
}

// GetLanguage extracts the resolved language from the context.
// Returns an empty string if the Locale middleware is not used.
func GetLanguage(c *internal.Context) string {
	if v, ok := c.Get(internal.LanguageKey{}).(string); ok {
		return v
	}
	return ""
}
