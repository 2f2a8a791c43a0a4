package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"gorm.io/gorm"
)

type ctxKey string

// TenantIDKey is the context key for the shop ID
const TenantIDKey ctxKey = "tenant_id"

// TenantScope returns a GORM scope that filters by shop.
// It must be applied to every query on shop-owned tables.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return QualifiedTenantScope(ctx, "")
}

// QualifiedTenantScope is TenantScope for queries that join several shop-owned tables.
func QualifiedTenantScope(ctx context.Context, table string) func(db *gorm.DB) *gorm.DB {
	column := "tenant_id"
	if table != "" {
		column = table + ".tenant_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
		if !ok {
			// No shop in context: match nothing rather than everything
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", tenantID)
	}
}

// WithTenant adds the shop ID to context
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantID extracts the shop ID from context
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// RequireTenantID extracts the shop ID or returns a bad request error
func RequireTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, apperror.NewBadRequestError("Tenant context required")
	}
	return tenantID, nil
}
