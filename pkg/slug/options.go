package slug

type config struct {
	separator    string
	stripChars   string
	replacements map[string]string
	reserved     []string
	maxLength    int
	minLength    int
	suffixLength int
	lowercase    bool
}

// Option configures slug generation.
type Option func(*config)

// Lowercase controls whether the slug is converted to lowercase.
// Enabled by default.
func Lowercase(enabled bool) Option {
	return func(c *config) {
		c.lowercase = enabled
	}
}

// Separator sets the string inserted between words. Defaults to "-".
// An empty separator joins words directly.
func Separator(sep string) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// MaxLength limits the slug to n runes. Truncation never leaves a trailing
// separator. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// MinLength pads slugs shorter than n runes with a random six character
// suffix. Zero means no minimum. When MaxLength is also set it takes
// priority and the padding shrinks to fit.
func MinLength(n int) Option {
	return func(c *config) {
		c.minLength = n
	}
}

// StripChars removes the given characters from the input before any other
// processing.
func StripChars(chars string) Option {
	return func(c *config) {
		c.stripChars = chars
	}
}

// CustomReplace applies substring replacements before slugification.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) {
		c.replacements = replacements
	}
}

// WithSuffix appends a random alphanumeric suffix of n runes for collision
// resistance. Under MaxLength the suffix keeps its full size and the base
// is truncated to make room. Zero means no suffix.
func WithSuffix(n int) Option {
	return func(c *config) {
		c.suffixLength = n
	}
}

// ReservedSlugs appends a random suffix whenever the finished slug matches
// one of the given values, compared case-insensitively.
func ReservedSlugs(slugs ...string) Option {
	return func(c *config) {
		c.reserved = slugs
	}
}
