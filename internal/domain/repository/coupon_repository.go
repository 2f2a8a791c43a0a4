package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	// GetByCode looks a coupon up by its normalized code
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Coupon, int64, error)
	// Redeem atomically consumes one use of an active coupon that is under its usage
	// limit. It returns false when the guard did not match.
	Redeem(ctx context.Context, id uuid.UUID) (bool, error)
}
