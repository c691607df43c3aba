package i18n

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// DefaultLang is the fallback language when none is configured.
const DefaultLang = "en"

// M carries placeholder values for translation templates.
type M map[string]any

// I18n resolves translations with language fallback and pluralization.
// Everything is set at construction; instances are immutable afterwards and
// safe to share across goroutines.
type I18n struct {
	// Keyed "lang:namespace:dotted.key" so every lookup is one map hit.
	translations map[string]string

	pluralRules map[string]PluralRule

	// Called when a key misses every language in the fallback chain.
	missingKeyHandler func(lang, namespace, key string)

	defaultLang string
	languages   []string
}

// Option configures an I18n during construction.
type Option func(*I18n) error

// New builds an I18n from the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		pluralRules:  make(map[string]PluralRule),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("i18n: applying option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}
	if len(i.languages) == 0 {
		i.languages = []string{i.defaultLang}
	}

	return i, nil
}

// WithDefaultLanguage sets the language the fallback chain ends on.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages declares the supported languages. The default language
// always comes first; the rest are sorted for a stable Languages() result.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		seen := make(map[string]bool, len(langs))
		for _, lang := range langs {
			if lang != "" && lang != i.defaultLang {
				seen[lang] = true
			}
		}
		if len(seen) == 0 && len(langs) == 0 {
			return nil
		}

		rest := make([]string, 0, len(seen))
		for lang := range seen {
			rest = append(rest, lang)
		}
		sort.Strings(rest)

		i.languages = append([]string{i.defaultLang}, rest...)
		return nil
	}
}

// WithTranslations registers translations for one language and namespace.
// Nested maps are flattened to dotted keys.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}

		i.merge(lang, namespace, translations)
		return nil
	}
}

// WithPluralRule overrides the plural rule for a language.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		i.pluralRules[lang] = rule
		return nil
	}
}

// WithMissingKeyHandler installs a callback fired on lookups that miss
// every language, the default included. Wire it to a counter or log to
// find translation gaps.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// merge flattens and stores translations, picking a plural rule for the
// language if none is registered yet.
func (i *I18n) merge(lang, namespace string, translations map[string]any) {
	for key, value := range flatten(translations, "") {
		i.translations[buildKey(lang, namespace, key)] = value
	}
	if _, ok := i.pluralRules[lang]; !ok {
		i.pluralRules[lang] = GetPluralRuleForLanguage(lang)
	}
}

// T resolves a translation, walking the fallback chain: exact tag, base
// language, then the default. Placeholders in {{name}} form are filled from
// the given maps. A full miss reports to the missing-key handler and
// returns the key itself, so broken lookups stay visible instead of blank.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	for _, candidate := range i.fallbackChain(lang) {
		if tr, ok := i.translations[buildKey(candidate, namespace, key)]; ok {
			return replaceMerged(tr, placeholders...)
		}
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
	return key
}

// Tn resolves a pluralized translation for count n. The language's plural
// rule picks the CLDR form, looked up as "key.form" with form fallbacks
// (e.g. "few" falls back through "many" to "other"). The count is always
// available as the {{count}} placeholder.
func (i *I18n) Tn(lang, namespace, key string, n int, placeholders ...M) string {
	form := i.pluralRule(lang)(n)

	for _, candidate := range i.fallbackChain(lang) {
		if tr, ok := i.lookupPlural(candidate, namespace, key, form); ok {
			merged := M{"count": n}
			for _, p := range placeholders {
				maps.Copy(merged, p)
			}
			return ReplacePlaceholders(tr, merged)
		}
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
	return key
}

// Languages lists the configured languages, default first.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the language the fallback chain ends on.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// fallbackChain orders the languages T and Tn try: the exact tag, its base
// ("en" for "en-US"), then the default unless already covered.
func (i *I18n) fallbackChain(lang string) []string {
	chain := make([]string, 0, 3)
	chain = append(chain, lang)

	base := baseLanguage(lang)
	if base != lang {
		chain = append(chain, base)
	}
	if lang != i.defaultLang && base != i.defaultLang {
		chain = append(chain, i.defaultLang)
	}
	return chain
}

// pluralRule resolves the rule for a language through the same chain the
// translations use.
func (i *I18n) pluralRule(lang string) PluralRule {
	if rule, ok := i.pluralRules[lang]; ok {
		return rule
	}
	if base := baseLanguage(lang); base != lang {
		if rule, ok := i.pluralRules[base]; ok {
			return rule
		}
	}
	if rule, ok := i.pluralRules[i.defaultLang]; ok {
		return rule
	}
	return DefaultPluralRule
}

// lookupPlural tries the exact plural form, then its CLDR fallbacks.
func (i *I18n) lookupPlural(lang, namespace, key, form string) (string, bool) {
	if tr, ok := i.translations[buildKey(lang, namespace, key+"."+form)]; ok {
		return tr, true
	}
	for _, fb := range fallbackForms(form) {
		if tr, ok := i.translations[buildKey(lang, namespace, key+"."+fb)]; ok {
			return tr, true
		}
	}
	return "", false
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

// baseLanguage strips the region: "en-US" becomes "en".
func baseLanguage(lang string) string {
	if idx := strings.IndexByte(lang, '-'); idx > 0 {
		return lang[:idx]
	}
	return lang
}

// flatten turns nested translation maps into dotted keys. Non-string
// leaves are stringified, which keeps numeric values usable.
func flatten(data map[string]any, prefix string) map[string]string {
	out := make(map[string]string, len(data))

	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			maps.Copy(out, flatten(v, full))
		case map[string]string:
			for sub, sv := range v {
				out[full+"."+sub] = sv
			}
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func replaceMerged(template string, placeholders ...M) string {
	switch len(placeholders) {
	case 0:
		return template
	case 1:
		return ReplacePlaceholders(template, placeholders[0])
	}

	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}
