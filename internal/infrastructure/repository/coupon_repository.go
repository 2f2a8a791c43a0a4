package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) domainRepo.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	return translate(conn(ctx, r.db).Create(coupon).Error)
}

func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&coupon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&coupon, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

func (r *couponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	return translate(conn(ctx, r.db).Omit("used_count", "created_at").Save(coupon).Error)
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Coupon{}, "id = ?", id).Error
}

func (r *couponRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Coupon, int64, error) {
	var coupons []entity.Coupon
	var total int64

	query := conn(ctx, r.db).Model(&entity.Coupon{}).Scopes(TenantScope(ctx))
	if search != "" {
		query = query.Where("LOWER(code) LIKE ?", likePattern(search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&coupons).Error

	return coupons, total, err
}

// Redeem atomically consumes one use of the coupon.
// Uses: UPDATE coupons SET used_count = used_count + 1 WHERE id = ? AND active AND (usage_limit IS NULL OR used_count < usage_limit)
func (r *couponRepository) Redeem(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Coupon{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND active = ?", id, true).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Update("used_count", gorm.Expr("used_count + 1"))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
