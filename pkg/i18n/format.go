package i18n

import (
	"strconv"
	"strings"
	"time"
)

// LocaleFormat renders numbers, money, and dates the way one locale
// expects. Values are fixed at construction; a format is safe to share.
type LocaleFormat struct {
	decimal        string
	grouping       string
	currencyPrefix string
	currencySuffix string
	percentSuffix  string
	dateLayout     string
	timeLayout     string
	dateTimeLayout string
}

// LocaleFormatOption configures a LocaleFormat.
type LocaleFormatOption func(*LocaleFormat)

// WithDecimalSeparator sets the fraction separator.
func WithDecimalSeparator(sep string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.decimal = sep }
}

// WithGroupingSeparator sets the thousands separator.
func WithGroupingSeparator(sep string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.grouping = sep }
}

// WithCurrency sets the strings placed around a money amount. Exactly one
// of the two is normally non-empty; spacing belongs to the affix, as in
// suffix " €".
func WithCurrency(prefix, suffix string) LocaleFormatOption {
	return func(f *LocaleFormat) {
		f.currencyPrefix = prefix
		f.currencySuffix = suffix
	}
}

// WithPercentSuffix sets the string appended to percentages, e.g. " %"
// for French.
func WithPercentSuffix(suffix string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.percentSuffix = suffix }
}

// WithDateLayout sets the Go time layout for dates.
func WithDateLayout(layout string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.dateLayout = layout }
}

// WithTimeLayout sets the Go time layout for times of day.
func WithTimeLayout(layout string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.timeLayout = layout }
}

// WithDateTimeLayout sets the Go time layout for combined stamps.
func WithDateTimeLayout(layout string) LocaleFormatOption {
	return func(f *LocaleFormat) { f.dateTimeLayout = layout }
}

// NewLocaleFormat builds a format; without options it is US English.
func NewLocaleFormat(opts ...LocaleFormatOption) *LocaleFormat {
	f := &LocaleFormat{
		decimal:        ".",
		grouping:       ",",
		currencyPrefix: "$",
		percentSuffix:  "%",
		dateLayout:     "01/02/2006",
		timeLayout:     "3:04 PM",
		dateTimeLayout: "01/02/2006 3:04 PM",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatNumber renders n with grouped thousands and up to two fraction
// digits, trailing zeros dropped: 1234567.89 becomes "1,234,567.89".
func (f *LocaleFormat) FormatNumber(n float64) string {
	return f.render(n, 2, true, true)
}

// FormatCurrency renders an amount with exactly two fraction digits and
// the locale's currency affixes. The sign precedes the prefix: -99.99 in
// US English is "-$99.99".
func (f *LocaleFormat) FormatCurrency(n float64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	return sign + f.currencyPrefix + f.render(n, 2, false, true) + f.currencySuffix
}

// FormatPercent renders a ratio as a percentage with up to one fraction
// digit: 0.5 becomes "50%", 0.125 becomes "12.5%".
func (f *LocaleFormat) FormatPercent(n float64) string {
	return f.render(n*100, 1, true, false) + f.percentSuffix
}

// FormatDate renders t with the locale's date layout.
func (f *LocaleFormat) FormatDate(t time.Time) string {
	return t.Format(f.dateLayout)
}

// FormatTime renders t with the locale's time-of-day layout.
func (f *LocaleFormat) FormatTime(t time.Time) string {
	return t.Format(f.timeLayout)
}

// FormatDateTime renders t with the locale's combined layout.
func (f *LocaleFormat) FormatDateTime(t time.Time) string {
	return t.Format(f.dateTimeLayout)
}

// render formats n with prec fraction digits, optionally trimming
// trailing zeros and grouping the integer part.
func (f *LocaleFormat) render(n float64, prec int, trim, group bool) string {
	s := strconv.FormatFloat(n, 'f', prec, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	if trim {
		frac = strings.TrimRight(frac, "0")
	}
	if group {
		intPart = f.groupDigits(intPart)
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if frac != "" {
		b.WriteString(f.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

func (f *LocaleFormat) groupDigits(digits string) string {
	if len(digits) <= 3 || f.grouping == "" {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(f.grouping)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
