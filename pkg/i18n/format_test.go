package i18n_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/pkg/i18n"
)

var sampleStamp = time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	t.Run("en-US", func(t *testing.T) {
		t.Parallel()
		f := i18n.FormatEnUS()
		assert.Equal(t, "1,234,567.89", f.FormatNumber(1234567.89))
		assert.Equal(t, "1,000", f.FormatNumber(1000))
		assert.Equal(t, "999", f.FormatNumber(999))
		assert.Equal(t, "0.5", f.FormatNumber(0.5))
		assert.Equal(t, "-1,234.5", f.FormatNumber(-1234.5))
		assert.Equal(t, "0", f.FormatNumber(0))
	})

	t.Run("de-DE swaps separators", func(t *testing.T) {
		t.Parallel()
		f := i18n.FormatDeDE()
		assert.Equal(t, "1.234.567,89", f.FormatNumber(1234567.89))
		assert.Equal(t, "0,5", f.FormatNumber(0.5))
	})

	t.Run("fr-FR groups with spaces", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1 234 567,89", i18n.FormatFrFR().FormatNumber(1234567.89))
	})

	t.Run("rounds to two fraction digits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "3.14", i18n.FormatEnUS().FormatNumber(3.14159))
	})
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	t.Run("prefix symbol", func(t *testing.T) {
		t.Parallel()
		f := i18n.FormatEnUS()
		assert.Equal(t, "$99.99", f.FormatCurrency(99.99))
		assert.Equal(t, "$1,234.50", f.FormatCurrency(1234.5))
		assert.Equal(t, "$5.00", f.FormatCurrency(5))
		assert.Equal(t, "-$99.99", f.FormatCurrency(-99.99))
	})

	t.Run("suffix symbol", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1.234,50 €", i18n.FormatDeDE().FormatCurrency(1234.5))
		assert.Equal(t, "12,00 zł", i18n.FormatPlPL().FormatCurrency(12))
	})

	t.Run("yen prefix", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "¥1,500.00", i18n.FormatJaJP().FormatCurrency(1500))
	})
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	f := i18n.FormatEnUS()
	assert.Equal(t, "50%", f.FormatPercent(0.5))
	assert.Equal(t, "12.5%", f.FormatPercent(0.125))
	assert.Equal(t, "100%", f.FormatPercent(1))
	assert.Equal(t, "0%", f.FormatPercent(0))

	assert.Equal(t, "50 %", i18n.FormatFrFR().FormatPercent(0.5))
}

func TestFormatDates(t *testing.T) {
	t.Parallel()

	t.Run("en-US", func(t *testing.T) {
		t.Parallel()
		f := i18n.FormatEnUS()
		assert.Equal(t, "06/15/2025", f.FormatDate(sampleStamp))
		assert.Equal(t, "2:30 PM", f.FormatTime(sampleStamp))
		assert.Equal(t, "06/15/2025 2:30 PM", f.FormatDateTime(sampleStamp))
	})

	t.Run("en-GB", func(t *testing.T) {
		t.Parallel()
		f := i18n.FormatEnGB()
		assert.Equal(t, "15/06/2025", f.FormatDate(sampleStamp))
		assert.Equal(t, "14:30", f.FormatTime(sampleStamp))
	})

	t.Run("ja-JP", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "2025/06/15", i18n.FormatJaJP().FormatDate(sampleStamp))
	})
}

func TestNewLocaleFormatOptions(t *testing.T) {
	t.Parallel()

	f := i18n.NewLocaleFormat(
		i18n.WithDecimalSeparator("·"),
		i18n.WithGroupingSeparator("'"),
		i18n.WithCurrency("CHF ", ""),
		i18n.WithPercentSuffix(" pct"),
		i18n.WithDateLayout("2006-01-02"),
	)
	assert.Equal(t, "1'234·56", f.FormatNumber(1234.56))
	assert.Equal(t, "CHF 10·00", f.FormatCurrency(10))
	assert.Equal(t, "25 pct", f.FormatPercent(0.25))
	assert.Equal(t, "2025-06-15", f.FormatDate(sampleStamp))
}
