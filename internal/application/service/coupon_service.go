package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CouponService handles coupon administration and validation
type CouponService struct {
	couponRepo repository.CouponRepository
	now        Clock
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, now: utcNow}
}

// CouponInput represents the coupon fields set on create and update
type CouponInput struct {
	Code          string
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	MinPurchase   *decimal.Decimal
	UsageLimit    *int
	StartsAt      *time.Time
	EndsAt        *time.Time
	Active        bool
	Notes         *string
}

func (in *CouponInput) validate() error {
	var fieldErrors []apperror.FieldError
	if pricing.NormalizeCode(in.Code) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "is required"})
	}
	if !in.DiscountType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_type", Message: "must be fixed or percentage"})
	}
	if !in.DiscountValue.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_value", Message: "must be greater than 0"})
	}
	if in.DiscountType == enum.DiscountTypePercentage && in.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_value", Message: "must not exceed 100 percent"})
	}
	if in.MinPurchase != nil && in.MinPurchase.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "min_purchase", Message: "must not be negative"})
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "usage_limit", Message: "must be at least 1"})
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "ends_at", Message: "must be after starts_at"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (in *CouponInput) applyTo(c *entity.Coupon) {
	c.Code = pricing.NormalizeCode(in.Code)
	c.DiscountType = in.DiscountType
	c.DiscountValue = in.DiscountValue
	c.MinPurchase = in.MinPurchase
	c.UsageLimit = in.UsageLimit
	c.StartsAt = in.StartsAt
	c.EndsAt = in.EndsAt
	c.Active = in.Active
	c.Notes = in.Notes
}

// CreateCoupon creates a coupon. Codes are unique per shop, ignoring case.
func (s *CouponService) CreateCoupon(ctx context.Context, input *CouponInput) (*entity.Coupon, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	coupon := &entity.Coupon{TenantID: tenantID}
	input.applyTo(coupon)

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Coupon code already exists")
		}
		return nil, storeErr("create coupon", err)
	}
	return coupon, nil
}

// GetCoupon retrieves a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load coupon", err)
	}
	if coupon == nil {
		return nil, apperror.NewNotFoundError("Coupon")
	}
	return coupon, nil
}

// ListCoupons lists the coupons of the current shop
func (s *CouponService) ListCoupons(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Coupon], error) {
	coupons, total, err := s.couponRepo.List(ctx, params, search)
	if err != nil {
		return nil, storeErr("list coupons", err)
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(coupons, pag), nil
}

// UpdateCoupon replaces the terms of a coupon. The usage count is kept.
func (s *CouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, input *CouponInput) (*entity.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	input.applyTo(coupon)

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Coupon code already exists")
		}
		return nil, storeErr("update coupon", err)
	}
	return coupon, nil
}

// DeleteCoupon removes a coupon. Invoices keep the code they were issued with.
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return err
	}
	return storeErr("delete coupon", s.couponRepo.Delete(ctx, id))
}

// FindByCode returns the coupon terms for code, or nil when the shop has no such coupon
func (s *CouponService) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, pricing.NormalizeCode(code))
	if err != nil {
		return nil, storeErr("load coupon", err)
	}
	return coupon, nil
}

// CouponValidation is the outcome of checking a code against a subtotal
type CouponValidation struct {
	Coupon   *entity.Coupon  `json:"coupon"`
	Discount decimal.Decimal `json:"discount"`
}

// ValidateCoupon checks a code against a subtotal without consuming it
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponValidation, error) {
	coupon, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	discount, err := pricing.ResolveCouponDiscount(coupon.Terms(), subtotal, s.now())
	if err != nil {
		if coupon == nil {
			return nil, apperror.GetAppError(err).With("code", pricing.NormalizeCode(code))
		}
		return nil, err
	}
	return &CouponValidation{Coupon: coupon, Discount: pricing.Round(discount)}, nil
}
