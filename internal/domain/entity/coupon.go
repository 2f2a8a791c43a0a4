package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon is a discount code redeemable at the counter
type Coupon struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_tenant_code" json:"tenant_id"`
	Code          string            `gorm:"size:100;not null;uniqueIndex:idx_coupon_tenant_code" json:"code"`
	DiscountType  enum.DiscountType `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"discount_value"`
	MinPurchase   *decimal.Decimal  `gorm:"type:numeric(12,2)" json:"min_purchase,omitempty"`
	UsageLimit    *int              `json:"usage_limit,omitempty"`
	UsedCount     int               `gorm:"not null;default:0" json:"used_count"`
	StartsAt      *time.Time        `json:"starts_at,omitempty"`
	EndsAt        *time.Time        `json:"ends_at,omitempty"`
	Active        bool              `gorm:"not null" json:"active"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID and normalizes the code before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = pricing.NormalizeCode(c.Code)
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// Terms returns the pricing view of the coupon.
func (c *Coupon) Terms() *pricing.Coupon {
	if c == nil {
		return nil
	}
	return &pricing.Coupon{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinPurchase:   c.MinPurchase,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		Active:        c.Active,
	}
}
