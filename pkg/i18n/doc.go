// Package i18n translates application text with language fallback,
// CLDR plural forms, and locale-aware number and date formatting.
//
// An I18n is assembled once at startup and immutable afterwards, so a
// single instance serves every request:
//
//	svc, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithLanguages("en", "de", "pl"),
//		i18n.WithYAMLDir(translationsFS),
//	)
//
// Translation files follow {lang}/{namespace}.yaml; nested keys flatten
// to dotted lookups, and {{name}} placeholders are filled from an M map:
//
//	greeting: "Hello, {{name}}!"
//	cart:
//	  items:
//	    one: "{{count}} item"
//	    other: "{{count}} items"
//
//	svc.T("de", "common", "greeting", i18n.M{"name": "Ada"})
//	svc.Tn("en", "common", "cart.items", 3)
//
// Lookups walk the exact tag, its base language, then the default; a full
// miss returns the key itself so gaps show up in rendered pages instead
// of vanishing. Plural lookups append the CLDR category for the count
// ("cart.items.one") with per-language rules and sensible fallbacks
// between categories.
//
// A Translator fixes the language, namespace, and LocaleFormat for one
// request; the framework's Locale middleware negotiates the language with
// ParseAcceptLanguage and attaches a Translator to the request context.
package i18n
