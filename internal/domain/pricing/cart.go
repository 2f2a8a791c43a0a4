package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Cart is the in-progress state of a sale before it becomes an invoice.
type Cart struct {
	CustomerID     *uuid.UUID
	Items          []LineItem
	ManualDiscount decimal.Decimal
	Coupon         *Coupon
	PaymentMethod  enum.PaymentMethod
	AmountPaid     decimal.Decimal
	Notes          string
}

// AddItem appends a garment line and returns its index.
func (c *Cart) AddItem(item LineItem) int {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.Items = append(c.Items, item)
	return len(c.Items) - 1
}

// RemoveItem drops the line at idx.
func (c *Cart) RemoveItem(idx int) error {
	if err := c.checkIndex(idx); err != nil {
		return err
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return nil
}

// SetQuantity updates the quantity of the line at idx. Quantities below 1 are rejected.
func (c *Cart) SetQuantity(idx, quantity int) error {
	if err := c.checkIndex(idx); err != nil {
		return err
	}
	if quantity < 1 {
		return apperror.ErrInvalidQuantity.With("line", idx)
	}
	c.Items[idx].Quantity = quantity
	return nil
}

// AttachService adds a service to the line at idx. Attaching a service twice is a no-op.
func (c *Cart) AttachService(idx int, svc ServiceLine) error {
	if err := c.checkIndex(idx); err != nil {
		return err
	}
	if c.Items[idx].HasService(svc.ServiceID) {
		return nil
	}
	c.Items[idx].Services = append(c.Items[idx].Services, svc)
	return nil
}

// DetachService removes a service from the line at idx.
func (c *Cart) DetachService(idx int, serviceID uuid.UUID) error {
	if err := c.checkIndex(idx); err != nil {
		return err
	}
	services := c.Items[idx].Services[:0]
	for _, s := range c.Items[idx].Services {
		if s.ServiceID != serviceID {
			services = append(services, s)
		}
	}
	c.Items[idx].Services = services
	return nil
}

// ApplyCoupon validates the coupon against the current subtotal and attaches it.
// A coupon replaces any manual discount.
func (c *Cart) ApplyCoupon(coupon *Coupon, now time.Time) error {
	if _, err := ResolveCouponDiscount(coupon, c.Subtotal(), now); err != nil {
		return err
	}
	cp := *coupon
	c.Coupon = &cp
	return nil
}

// ClearCoupon removes the applied coupon. The manual discount applies again.
func (c *Cart) ClearCoupon() {
	c.Coupon = nil
}

// Clear resets the cart for the next customer.
func (c *Cart) Clear() {
	*c = Cart{}
}

func (c *Cart) Subtotal() decimal.Decimal {
	return ComputeSubtotal(c.Items)
}

// Discount is the coupon discount when a coupon is applied, otherwise the manual discount
// bounded by [0, subtotal].
func (c *Cart) Discount() decimal.Decimal {
	subtotal := c.Subtotal()
	if c.Coupon != nil {
		return CouponDiscount(*c.Coupon, subtotal)
	}
	return clamp(c.ManualDiscount, subtotal)
}

// Quote prices the cart at full precision with the given tax rate percentage.
func (c *Cart) Quote(taxRate decimal.Decimal) Breakdown {
	b := Price(c.Items, c.Discount(), taxRate, c.AmountPaid)
	if c.Coupon != nil {
		b.CouponCode = c.Coupon.Code
	}
	return b
}

// Validate checks the cart can be issued as an invoice.
func (c *Cart) Validate() error {
	return ValidateForIssue(c.CustomerID, c.Items)
}

func (c *Cart) checkIndex(idx int) error {
	if idx < 0 || idx >= len(c.Items) {
		return apperror.NewBadRequestError("line item does not exist").With("line", idx)
	}
	return nil
}
