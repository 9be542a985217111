package money

import (
	"fmt"

	"github.com/minibank/minibank/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Scale is the number of fraction digits every stored or returned amount carries.
const Scale = 2

// Round2 rounds d to two fraction digits using half-up rounding.
// Intermediate arithmetic (e.g. amount times rate) is done at full precision
// and passed through Round2 exactly once, at the point a value is persisted
// or returned.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Format renders d in the canonical two-decimal text form used for both
// storage and API exchange, e.g. "100.00" or "-40.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Parse converts decimal-preserving text into a decimal value.
// Binary floating point never enters the conversion.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, s)
	}
	return d, nil
}
