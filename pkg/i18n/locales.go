package i18n

// Ready-made formats for common locales. Applications with other needs
// compose their own with NewLocaleFormat.

// FormatEnUS is US English: 1,234.56 / $1,234.56 / 01/02/2006 3:04 PM.
func FormatEnUS() *LocaleFormat {
	return NewLocaleFormat()
}

// FormatEnGB is British English.
func FormatEnGB() *LocaleFormat {
	return NewLocaleFormat(
		WithCurrency("£", ""),
		WithDateLayout("02/01/2006"),
		WithTimeLayout("15:04"),
		WithDateTimeLayout("02/01/2006 15:04"),
	)
}

// FormatDeDE is German: 1.234,56 / 1.234,56 €.
func FormatDeDE() *LocaleFormat {
	return NewLocaleFormat(
		WithDecimalSeparator(","),
		WithGroupingSeparator("."),
		WithCurrency("", " €"),
		WithPercentSuffix(" %"),
		WithDateLayout("02.01.2006"),
		WithTimeLayout("15:04"),
		WithDateTimeLayout("02.01.2006 15:04"),
	)
}

// FormatFrFR is French: 1 234,56 / 1 234,56 €.
func FormatFrFR() *LocaleFormat {
	return NewLocaleFormat(
		WithDecimalSeparator(","),
		WithGroupingSeparator(" "),
		WithCurrency("", " €"),
		WithPercentSuffix(" %"),
		WithDateLayout("02/01/2006"),
		WithTimeLayout("15:04"),
		WithDateTimeLayout("02/01/2006 15:04"),
	)
}

// FormatPlPL is Polish: 1 234,56 / 1 234,56 zł.
func FormatPlPL() *LocaleFormat {
	return NewLocaleFormat(
		WithDecimalSeparator(","),
		WithGroupingSeparator(" "),
		WithCurrency("", " zł"),
		WithDateLayout("02.01.2006"),
		WithTimeLayout("15:04"),
		WithDateTimeLayout("02.01.2006 15:04"),
	)
}

// FormatJaJP is Japanese: 1,234.56 / ¥1,235.
func FormatJaJP() *LocaleFormat {
	return NewLocaleFormat(
		WithCurrency("¥", ""),
		WithDateLayout("2006/01/02"),
		WithTimeLayout("15:04"),
		WithDateTimeLayout("2006/01/02 15:04"),
	)
}
