package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RoundToPrecision rounds amount to the nearest multiple of precision,
// ties to even. A zero result is normalized so that -0 never appears.
func RoundToPrecision(amount, precision decimal.Decimal) decimal.Decimal {
	if !precision.IsPositive() {
		return amount
	}
	rounded := amount.Div(precision).RoundBank(0).Mul(precision)
	if rounded.IsZero() {
		return decimal.Zero
	}
	// Keep the scale implied by the increment, e.g. 0.05 -> two decimals.
	return rounded.Round(-precision.Exponent())
}

// TaxAmount computes the tax contained in (inclusive) or due on (exclusive) amount.
func TaxAmount(amount, rate decimal.Decimal, inclusive bool) decimal.Decimal {
	if inclusive {
		return amount.Mul(rate).Div(decimal.NewFromInt(1).Add(rate))
	}
	return amount.Mul(rate)
}

// Convert applies price to amount and rounds the result to precision.
func Convert(amount, price, precision decimal.Decimal) decimal.Decimal {
	return RoundToPrecision(amount.Mul(price), precision)
}

// IntegralAccount converts a numeric account specifier to an int, rejecting
// fractional values.
func IntegralAccount(d decimal.Decimal) (int, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: non-integer account number %s", apperrors.ErrInvalidRange, d.String())
	}
	return int(d.IntPart()), nil
}
