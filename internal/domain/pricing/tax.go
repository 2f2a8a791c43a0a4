package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate is the Saudi VAT percentage used when a shop has not configured one.
var DefaultTaxRate = decimal.NewFromInt(15)

// TaxableBase is subtotal minus discount, never negative.
func TaxableBase(subtotal, discount decimal.Decimal) decimal.Decimal {
	return floorZero(subtotal.Sub(discount))
}

// ComputeTax returns base × rate / 100 at full precision.
func ComputeTax(taxableBase, taxRate decimal.Decimal) decimal.Decimal {
	return floorZero(taxableBase).Mul(taxRate).Div(hundred)
}

// ComputeTotal returns (subtotal − discount) + tax, floored at zero.
func ComputeTotal(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return floorZero(subtotal.Sub(discount).Add(tax))
}
