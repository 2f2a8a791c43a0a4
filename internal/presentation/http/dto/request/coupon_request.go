package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponRequest represents a coupon create or update request
type CouponRequest struct {
	Code          string           `json:"code" binding:"required,max=100"`
	DiscountType  string           `json:"discount_type" binding:"required"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinPurchase   *decimal.Decimal `json:"min_purchase"`
	UsageLimit    *int             `json:"usage_limit"`
	StartsAt      *time.Time       `json:"starts_at"`
	EndsAt        *time.Time       `json:"ends_at"`
	Active        *bool            `json:"active"`
	Notes         *string          `json:"notes"`
}

// ValidateCouponRequest checks a code against a cart subtotal
type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
