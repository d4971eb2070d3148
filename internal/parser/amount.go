package parser

import (
	"github.com/shopspring/decimal"

	"backoffice/internal/normalize"
)

// MaxReasonableAmount is the largest value accepted as a monetary field
// candidate. Larger values are almost always glued digits from extraction.
var MaxReasonableAmount = decimal.NewFromInt(100_000_000)

// IsReasonableAmount reports whether s normalizes to an amount in
// [0, MaxReasonableAmount].
func IsReasonableAmount(s string) bool {
	d, ok := normalize.ParseAmount(s)
	if !ok {
		return false
	}
	return !d.IsNegative() && !d.GreaterThan(MaxReasonableAmount)
}
