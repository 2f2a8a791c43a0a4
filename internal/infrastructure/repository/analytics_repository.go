package repository

import (
	"context"
	"time"

	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// earning restricts a query to invoices that count towards revenue in [from, to).
func (r *analyticsRepository) earning(ctx context.Context, from, to time.Time) *gorm.DB {
	return conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx)).
		Where("is_returned = ? AND status <> ?", false, enum.InvoiceStatusCancelled).
		Where("issued_at >= ? AND issued_at < ?", from, to)
}

func (r *analyticsRepository) RevenueSummary(ctx context.Context, from, to time.Time) (*domainRepo.RevenueSummary, error) {
	var summary domainRepo.RevenueSummary

	err := r.earning(ctx, from, to).Select(`
		COUNT(*) as invoice_count,
		COALESCE(SUM(pieces_count), 0) as pieces_count,
		COALESCE(SUM(subtotal), 0) as subtotal,
		COALESCE(SUM(discount), 0) as discount,
		COALESCE(SUM(tax), 0) as tax,
		COALESCE(SUM(total), 0) as revenue,
		COALESCE(SUM(CASE WHEN status = ? AND total > amount_paid THEN total - amount_paid ELSE 0 END), 0) as outstanding
	`, enum.InvoiceStatusPending).Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *analyticsRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]domainRepo.DailyRevenue, error) {
	var results []domainRepo.DailyRevenue

	day := "TO_CHAR(issued_at, 'YYYY-MM-DD')"
	if r.db.Dialector.Name() == "sqlite" {
		day = "strftime('%Y-%m-%d', issued_at)"
	}

	err := r.earning(ctx, from, to).
		Select(day + " as date, COUNT(*) as invoice_count, COALESCE(SUM(total), 0) as revenue").
		Group(day).
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
