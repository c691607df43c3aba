package slug

import (
	"crypto/rand"
	"encoding/binary"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultSeparator = "-"

	// padLength is the suffix size used for MinLength padding and for
	// reserved-slug collisions when no explicit suffix length is set.
	padLength = 6

	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	mixedAlnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// foldAccents strips combining marks after canonical decomposition,
// turning "é" into "e" while leaving characters without a decomposition
// (and compatibility forms like "™") untouched.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures maps Latin letters that canonical decomposition leaves alone.
var ligatures = strings.NewReplacer(
	"ß", "s",
	"æ", "a", "Æ", "A",
	"œ", "o", "Œ", "O",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
)

// Make converts input into a URL-safe slug.
//
// The input passes through StripChars removal and CustomReplace
// substitutions first, then diacritics fold to their ASCII equivalents and
// every run of non-alphanumeric characters collapses into a single
// separator. Suffix, reserved-slug, and length options apply to the result.
func Make(input string, opts ...Option) string {
	cfg := config{
		separator: defaultSeparator,
		lowercase: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := input
	if cfg.stripChars != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(cfg.stripChars, r) {
				return -1
			}
			return r
		}, s)
	}
	// Sorted keys keep the output stable when replacements overlap.
	for _, from := range slices.Sorted(maps.Keys(cfg.replacements)) {
		s = strings.ReplaceAll(s, from, cfg.replacements[from])
	}

	s = normalize(s)
	s = slugify(s, cfg.separator)
	if cfg.lowercase {
		s = strings.ToLower(s)
	}

	sepRunes := utf8.RuneCountInString(cfg.separator)

	suffixLen := cfg.suffixLength
	if suffixLen == 0 && isReserved(s, cfg.reserved) {
		suffixLen = padLength
	}

	if suffixLen > 0 {
		if cfg.maxLength > 0 {
			if cfg.suffixLength > 0 {
				// An explicit suffix keeps its full size and the base
				// shrinks. When even the suffix alone does not fit, the
				// base is dropped and the suffix itself is cut.
				room := cfg.maxLength - sepRunes - suffixLen
				switch {
				case room <= 0:
					s = ""
					suffixLen = cfg.maxLength
				case utf8.RuneCountInString(s) > room:
					s = trimSeparator(truncate(s, room), cfg.separator)
				}
			} else if avail := cfg.maxLength - utf8.RuneCountInString(s) - sepRunes; avail < suffixLen {
				// A reserved-slug suffix gives way to the base instead.
				suffixLen = avail
			}
		}
		if suffixLen > 0 {
			s = join(s, randomSuffix(suffixLen, cfg.lowercase), cfg.separator)
		}
	}

	if cfg.maxLength > 0 && utf8.RuneCountInString(s) > cfg.maxLength {
		s = trimSeparator(truncate(s, cfg.maxLength), cfg.separator)
	}

	if cfg.minLength > 0 && utf8.RuneCountInString(s) < cfg.minLength {
		pad := padLength
		if cfg.maxLength > 0 {
			avail := cfg.maxLength - utf8.RuneCountInString(s)
			if s != "" {
				avail -= sepRunes
			}
			if avail < pad {
				pad = avail
			}
		}
		if pad > 0 {
			s = join(s, randomSuffix(pad, cfg.lowercase), cfg.separator)
		}
	}

	return s
}

// normalize folds diacritics and ligatures to their ASCII equivalents.
// Characters outside the Latin range pass through and become separators
// during slugification.
func normalize(s string) string {
	s = ligatures.Replace(s)
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return s
	}
	return out
}

// slugify keeps ASCII letters and digits and collapses every run of other
// characters into a single separator, with no leading or trailing one.
func slugify(s, sep string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if isAlnum(r) {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			b.WriteRune(r)
			pending = false
		} else {
			pending = true
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func isReserved(s string, reserved []string) bool {
	return slices.ContainsFunc(reserved, func(r string) bool {
		return strings.EqualFold(r, s)
	})
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// trimSeparator removes trailing separator characters left by truncation,
// including partial cuts of a multi-character separator.
func trimSeparator(s, sep string) string {
	if sep == "" {
		return s
	}
	return strings.TrimRight(s, sep)
}

func join(base, suffix, sep string) string {
	if base == "" {
		return suffix
	}
	return base + sep + suffix
}

// randomSuffix returns n random characters from the lowercase or mixed-case
// alphanumeric set. Falls back to timestamp-derived bytes if the system
// random source fails.
func randomSuffix(n int, lowercase bool) string {
	charset := mixedAlnum
	if lowercase {
		charset = lowerAlnum
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		seed := make([]byte, 8)
		binary.BigEndian.PutUint64(seed, uint64(time.Now().UnixNano()))
		for i := range buf {
			buf[i] = seed[i%len(seed)] ^ byte(i)
		}
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf)
}
