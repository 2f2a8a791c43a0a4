package pricing

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept when an amount is displayed or persisted.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round rounds an amount half away from zero to MoneyPlaces.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// floorZero clamps negative amounts to zero.
func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// clamp bounds d to [0, max].
func clamp(d, max decimal.Decimal) decimal.Decimal {
	d = floorZero(d)
	if d.GreaterThan(max) {
		return max
	}
	return d
}
