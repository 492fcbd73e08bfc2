package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal reads a number that may use ',' as decimal separator.
// ok is false when s is not a non-negative number.
func ParseDecimal(s string) (d decimal.Decimal, ok bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// decimalOrZero substitutes zero for an unparsable number.
func decimalOrZero(s string) decimal.Decimal {
	d, _ := ParseDecimal(s)
	return d
}
