package i18n

import "errors"

var (
	// ErrEmptyLanguage is returned for options given an empty language tag.
	ErrEmptyLanguage = errors.New("i18n: empty language")

	// ErrEmptyNamespace is returned for translations registered without a
	// namespace.
	ErrEmptyNamespace = errors.New("i18n: empty namespace")

	// ErrNilPluralRule is returned by WithPluralRule for a nil rule.
	ErrNilPluralRule = errors.New("i18n: nil plural rule")

	// ErrInvalidFile is returned when a translation file cannot be parsed
	// or sits outside a language directory.
	ErrInvalidFile = errors.New("i18n: invalid translation file")
)
