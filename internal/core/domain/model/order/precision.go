package order

import (
	"fmt"
	"strings"

	"brokerage/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Quantities and prices are stored as numeric(32,16).
const (
	MaxIntegerDigits  = 16
	MaxFractionDigits = 16
)

var (
	minStorable = decimal.New(1, -MaxFractionDigits)
	maxStorable = decimal.New(1, MaxIntegerDigits).Sub(minStorable)
)

// checkPrecision rejects values the database column would round or overflow.
// Trailing fractional zeros do not count.
func checkPrecision(field string, d decimal.Decimal) error {
	intPart, fracPart, _ := strings.Cut(d.Abs().String(), ".")
	intDigits := len(strings.TrimLeft(intPart, "0"))
	fracDigits := len(strings.TrimRight(fracPart, "0"))

	if intDigits > MaxIntegerDigits || fracDigits > MaxFractionDigits {
		return errs.NewValueIsOutOfRangeErrorWithCause(field, d.String(), minStorable.String(), maxStorable.String(),
			fmt.Errorf("at most %d integer and %d fractional digits are allowed", MaxIntegerDigits, MaxFractionDigits))
	}
	return nil
}
