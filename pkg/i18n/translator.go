package i18n

import "time"

// Translator binds an I18n to one language, namespace, and locale format,
// so request handlers translate with just a key. The Locale middleware
// builds one per request and stores it on the Context.
type Translator struct {
	svc       *I18n
	format    *LocaleFormat
	language  string
	namespace string
}

// NewTranslator creates a Translator. An empty language falls back to the
// service's default; a nil format falls back to FormatEnUS. Panics on a
// nil service, which is a wiring mistake.
func NewTranslator(svc *I18n, language, namespace string, format *LocaleFormat) *Translator {
	if svc == nil {
		panic("i18n: NewTranslator called without a service")
	}
	if language == "" {
		language = svc.DefaultLanguage()
	}
	if format == nil {
		format = FormatEnUS()
	}
	return &Translator{
		svc:       svc,
		language:  language,
		namespace: namespace,
		format:    format,
	}
}

// T translates key in the bound language and namespace.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.svc.T(t.language, t.namespace, key, placeholders...)
}

// Tn translates key with the plural form for n.
func (t *Translator) Tn(key string, n int, placeholders ...M) string {
	return t.svc.Tn(t.language, t.namespace, key, n, placeholders...)
}

// TranslateMessage matches validator.TranslateFunc so validation errors
// can be localized directly: ve.Translate(tr.TranslateMessage).
func (t *Translator) TranslateMessage(key string, values map[string]any) string {
	return t.svc.T(t.language, t.namespace, key, values)
}

// FormatNumber renders n per the bound locale format.
func (t *Translator) FormatNumber(n float64) string { return t.format.FormatNumber(n) }

// FormatCurrency renders an amount per the bound locale format.
func (t *Translator) FormatCurrency(n float64) string { return t.format.FormatCurrency(n) }

// FormatPercent renders a ratio per the bound locale format.
func (t *Translator) FormatPercent(n float64) string { return t.format.FormatPercent(n) }

// FormatDate renders a date per the bound locale format.
func (t *Translator) FormatDate(d time.Time) string { return t.format.FormatDate(d) }

// FormatTime renders a time of day per the bound locale format.
func (t *Translator) FormatTime(d time.Time) string { return t.format.FormatTime(d) }

// FormatDateTime renders a timestamp per the bound locale format.
func (t *Translator) FormatDateTime(d time.Time) string { return t.format.FormatDateTime(d) }

// Language returns the bound language tag.
func (t *Translator) Language() string { return t.language }

// Namespace returns the bound namespace.
func (t *Translator) Namespace() string { return t.namespace }

// Format returns the bound locale format.
func (t *Translator) Format() *LocaleFormat { return t.format }
