package pricing

import (
	"strings"
	"time"

	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Coupon holds the terms of a coupon needed to price it.
type Coupon struct {
	Code          string
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	MinPurchase   *decimal.Decimal
	UsageLimit    *int
	UsedCount     int
	StartsAt      *time.Time
	EndsAt        *time.Time
	Active        bool
}

// NormalizeCode upper-cases and trims a coupon code as entered by a cashier.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckEligibility returns InvalidCoupon when the coupon cannot be used for the subtotal at now.
func CheckEligibility(c Coupon, subtotal decimal.Decimal, now time.Time) error {
	invalid := apperror.ErrInvalidCoupon.With("code", c.Code)
	switch {
	case !c.Active:
		return invalid.With("reason", "inactive")
	case c.StartsAt != nil && now.Before(*c.StartsAt):
		return invalid.With("reason", "not_yet_valid")
	case c.EndsAt != nil && now.After(*c.EndsAt):
		return invalid.With("reason", "expired")
	case c.MinPurchase != nil && subtotal.LessThan(*c.MinPurchase):
		return invalid.With("reason", "below_min_purchase").With("min_purchase", c.MinPurchase.StringFixed(MoneyPlaces))
	case c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit:
		return invalid.With("reason", "usage_limit_reached")
	case !c.DiscountType.IsValid():
		return invalid.With("reason", "unknown_discount_type")
	}
	return nil
}

// CouponDiscount computes the discount a coupon grants on subtotal, bounded by [0, subtotal].
func CouponDiscount(c Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case enum.DiscountTypePercentage:
		d = subtotal.Mul(c.DiscountValue).Div(hundred)
	default:
		d = c.DiscountValue
	}
	return clamp(d, floorZero(subtotal))
}

// ResolveCouponDiscount validates the coupon and returns its discount on subtotal.
func ResolveCouponDiscount(c *Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, apperror.ErrInvalidCoupon.With("reason", "not_found")
	}
	if err := CheckEligibility(*c, subtotal, now); err != nil {
		return decimal.Zero, err
	}
	return CouponDiscount(*c, subtotal), nil
}
