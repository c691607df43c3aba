package i18n

import "strings"

// PluralRule maps a count to a CLDR plural category name.
type PluralRule func(n int) string

// CLDR plural categories. Few languages use all six.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// DefaultPluralRule is a generic rule for languages without a specific one.
var DefaultPluralRule PluralRule = func(n int) string {
	switch n = max(n, -n); {
	case n == 0:
		return PluralZero
	case n == 1:
		return PluralOne
	case n <= 4:
		return PluralFew
	case n < 20:
		return PluralMany
	default:
		return PluralOther
	}
}

// EnglishPluralRule: zero, one, other.
var EnglishPluralRule PluralRule = func(n int) string {
	switch max(n, -n) {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	default:
		return PluralOther
	}
}

// SlavicPluralRule covers Polish, Russian, Czech, Ukrainian, and kin:
// zero, one, few (2-4 outside 12-14), many.
var SlavicPluralRule PluralRule = func(n int) string {
	n = max(n, -n)
	switch {
	case n == 0:
		return PluralZero
	case n == 1:
		return PluralOne
	}

	if mod10 := n % 10; mod10 >= 2 && mod10 <= 4 {
		if mod100 := n % 100; mod100 < 12 || mod100 > 14 {
			return PluralFew
		}
	}
	return PluralMany
}

// RomancePluralRule covers French, Italian, and Portuguese, where zero
// takes the singular: one (0, 1), many (millions), other.
var RomancePluralRule PluralRule = func(n int) string {
	switch n = max(n, -n); {
	case n <= 1:
		return PluralOne
	case n >= 1_000_000:
		return PluralMany
	default:
		return PluralOther
	}
}

// SpanishPluralRule is Romance minus the zero-as-singular quirk.
var SpanishPluralRule PluralRule = func(n int) string {
	switch n = max(n, -n); {
	case n == 1:
		return PluralOne
	case n >= 1_000_000:
		return PluralMany
	default:
		return PluralOther
	}
}

// GermanicPluralRule covers German, Dutch, and Scandinavian: one, other.
var GermanicPluralRule PluralRule = func(n int) string {
	if max(n, -n) == 1 {
		return PluralOne
	}
	return PluralOther
}

// AsianPluralRule covers languages without grammatical plural forms:
// everything is other.
var AsianPluralRule PluralRule = func(int) string {
	return PluralOther
}

// ArabicPluralRule uses all six categories.
var ArabicPluralRule PluralRule = func(n int) string {
	n = max(n, -n)
	switch n {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	case 2:
		return PluralTwo
	}

	switch mod100 := n % 100; {
	case mod100 >= 3 && mod100 <= 10:
		return PluralFew
	case mod100 >= 11:
		return PluralMany
	default:
		return PluralOther
	}
}

// GetPluralRuleForLanguage picks the rule for an ISO 639-1 code, region
// suffixes ignored. Unknown languages get DefaultPluralRule.
func GetPluralRuleForLanguage(lang string) PluralRule {
	if len(lang) >= 2 {
		lang = strings.ToLower(lang[:2])
	}

	switch lang {
	case "en":
		return EnglishPluralRule
	case "pl", "ru", "cs", "uk", "hr", "sr", "sk", "sl", "bg":
		return SlavicPluralRule
	case "fr", "it", "pt":
		return RomancePluralRule
	case "es":
		return SpanishPluralRule
	case "de", "nl", "sv", "no", "da", "is":
		return GermanicPluralRule
	case "ja", "zh", "ko", "th", "vi", "id", "ms":
		return AsianPluralRule
	case "ar":
		return ArabicPluralRule
	default:
		return DefaultPluralRule
	}
}

// SupportedPluralForms probes a rule and reports which categories it can
// produce, in CLDR order. Handy for validating translation files.
func SupportedPluralForms(rule PluralRule) []string {
	probes := []int{0, 1, 2, 3, 4, 5, 10, 11, 12, 13, 14, 20, 21, 22, 100, 1000, 1_000_000}

	seen := make(map[string]bool, 6)
	for _, n := range probes {
		seen[rule(n)] = true
	}

	var forms []string
	for _, form := range []string{PluralZero, PluralOne, PluralTwo, PluralFew, PluralMany, PluralOther} {
		if seen[form] {
			forms = append(forms, form)
		}
	}
	return forms
}

// fallbackForms orders the categories to try when the exact form has no
// translation. Everything eventually lands on other.
func fallbackForms(form string) []string {
	switch form {
	case PluralTwo:
		return []string{PluralFew, PluralMany, PluralOther}
	case PluralFew:
		return []string{PluralMany, PluralOther}
	case PluralOther:
		return nil
	default:
		return []string{PluralOther}
	}
}
