package pricing

import (
	"github.com/shopspring/decimal"
)

// All store prices are decimal with two fractional digits. Discounts are
// integer percentages in [0,100] and the discounted price is computed on
// read, never persisted.

// Discounted returns price reduced by pct percent, rounded half-up to
// 2 decimal places. pct outside [0,100] is clamped.
func Discounted(price decimal.Decimal, pct int) decimal.Decimal {
	if pct <= 0 {
		return price.Round(2)
	}
	if pct > 100 {
		pct = 100
	}
	discount := price.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100))
	return price.Sub(discount).Round(2)
}

// DiscountAmount is the absolute saving: price - Discounted(price, pct).
func DiscountAmount(price decimal.Decimal, pct int) decimal.Decimal {
	return price.Round(2).Sub(Discounted(price, pct))
}

// Cents converts an amount to the integer minor-unit representation the
// intent-based provider expects (e.g. 19.99 -> 1999).
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
