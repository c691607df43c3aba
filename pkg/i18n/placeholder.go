package i18n

import (
	"fmt"
	"strings"
)

// ReplacePlaceholders fills {{name}} markers in template from the map.
// Markers without a value stay in the output untouched, so missing
// placeholders are visible rather than silently blank.
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	for {
		open := strings.Index(template, "{{")
		if open < 0 {
			b.WriteString(template)
			return b.String()
		}
		close := strings.Index(template[open:], "}}")
		if close < 0 {
			b.WriteString(template)
			return b.String()
		}
		close += open

		b.WriteString(template[:open])
		name := template[open+2 : close]
		if value, ok := placeholders[name]; ok {
			fmt.Fprintf(&b, "%v", value)
		} else {
			b.WriteString(template[open : close+2])
		}
		template = template[close+2:]
	}
}
