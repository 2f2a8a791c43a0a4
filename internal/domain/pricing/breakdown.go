package pricing

import "github.com/shopspring/decimal"

// Breakdown is the priced view of a cart.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	PiecesCount int             `json:"pieces_count"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	// Remaining is amount paid minus total: positive is change owed, negative is outstanding.
	Remaining  decimal.Decimal `json:"remaining"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

// Price computes a full-precision breakdown.
func Price(items []LineItem, discount, taxRate, amountPaid decimal.Decimal) Breakdown {
	subtotal := ComputeSubtotal(items)
	discount = clamp(discount, subtotal)
	base := TaxableBase(subtotal, discount)
	tax := ComputeTax(base, taxRate)
	total := ComputeTotal(subtotal, tax, discount)
	return Breakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		TaxableBase: base,
		TaxRate:     taxRate,
		Tax:         tax,
		Total:       total,
		PiecesCount: PiecesCount(items),
		AmountPaid:  amountPaid,
		Remaining:   amountPaid.Sub(total),
	}
}

// Rounded returns the breakdown as it is displayed and persisted. Tax is rounded from the
// full-precision base, and the total is assembled from the rounded parts so that
// total = (subtotal − discount) + tax holds on the stored figures.
func (b Breakdown) Rounded() Breakdown {
	subtotal := Round(b.Subtotal)
	discount := clamp(Round(b.Discount), subtotal)
	base := TaxableBase(subtotal, discount)
	tax := Round(ComputeTax(b.TaxableBase, b.TaxRate))
	total := ComputeTotal(subtotal, tax, discount)
	paid := Round(b.AmountPaid)
	return Breakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		TaxableBase: base,
		TaxRate:     b.TaxRate,
		Tax:         tax,
		Total:       total,
		PiecesCount: b.PiecesCount,
		AmountPaid:  paid,
		Remaining:   paid.Sub(total),
		CouponCode:  b.CouponCode,
	}
}

// IsUnderpaid reports whether the amount paid does not cover the total.
func (b Breakdown) IsUnderpaid() bool {
	return b.Remaining.IsNegative()
}
