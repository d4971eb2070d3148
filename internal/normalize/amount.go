// Package normalize converts Chilean-locale amounts and Spanish dates into
// canonical numeric and ISO forms.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// BaselineCeiling bounds amounts stored through the standard intake path.
	BaselineCeiling = decimal.RequireFromString("999999999.99")
	// ExtendedCeiling bounds amounts stored through the high-capacity path.
	ExtendedCeiling = decimal.RequireFromString("9999999999.99")
)

var (
	currencyMarkers = regexp.MustCompile(`(?i)\$|clp|\s+`)
	amountShape     = regexp.MustCompile(`^-?[0-9][0-9.,]*$`)
)

// ParseAmount converts a locale-formatted amount into a decimal without
// clamping. A comma is the decimal separator when present. Otherwise a final
// period group of exactly two digits is read as cents and every other period
// is a thousands separator.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := currencyMarkers.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" || !amountShape.MatchString(s) {
		return decimal.Zero, false
	}

	switch {
	case strings.Contains(s, ","):
		// 1.234,56 -> 1234.56; a second comma makes the value ambiguous.
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, false
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, "."):
		groups := strings.Split(s, ".")
		last := groups[len(groups)-1]
		if len(last) == 2 {
			s = strings.Join(groups[:len(groups)-1], "") + "." + last
		} else {
			s = strings.Join(groups, "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Amount normalizes raw into a non-negative value rounded to two decimals and
// clamped to ceiling. Unparseable or negative input yields 0.
func Amount(raw string, ceiling decimal.Decimal) float64 {
	d, ok := ParseAmount(raw)
	if !ok || d.IsNegative() {
		return 0
	}
	d = d.Round(2)
	if d.GreaterThan(ceiling) {
		d = ceiling
	}
	return d.InexactFloat64()
}

// Percentage parses a tax rate such as "19" or "19,5" into [0, 100].
func Percentage(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return 0, false
	}
	return d.Round(2).InexactFloat64(), true
}
