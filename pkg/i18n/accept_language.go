package i18n

import "golang.org/x/text/language"

// ParseAcceptLanguage picks the best of the available languages for an
// Accept-Language header, honoring quality weights and base-language
// matches ("en-AU" finds "en"). An empty or unusable header, or a header
// matching nothing, yields the first available language; the result is
// always one of the strings passed in.
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if header == "" {
		return available[0]
	}

	supported := make([]language.Tag, 0, len(available))
	originals := make([]string, 0, len(available))
	for _, lang := range available {
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		originals = append(originals, lang)
	}
	if len(supported) == 0 {
		return available[0]
	}

	wanted, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(wanted) == 0 {
		return available[0]
	}

	_, idx, conf := language.NewMatcher(supported).Match(wanted...)
	if conf == language.No {
		return available[0]
	}
	return originals[idx]
}
