package service

import (
	"context"
	"time"

	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	now           Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		now:           utcNow,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	From            time.Time                 `json:"from"`
	To              time.Time                 `json:"to"`
	Summary         *repository.RevenueSummary `json:"summary"`
	Daily           []repository.DailyRevenue `json:"daily"`
	TotalCustomers  int64                     `json:"total_customers"`
	PendingInvoices int64                     `json:"pending_invoices"`
	ReturnedCount   int64                     `json:"returned_invoices"`
}

// GetDashboardStats returns revenue for [from, to). Zero bounds default to the last 30 days.
func (s *DashboardService) GetDashboardStats(ctx context.Context, from, to time.Time) (*DashboardStats, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if !from.Before(to) {
		return nil, apperror.NewBadRequestError("from must be before to")
	}

	stats := &DashboardStats{From: from, To: to}

	summary, err := s.analyticsRepo.RevenueSummary(ctx, from, to)
	if err != nil {
		return nil, storeErr("load revenue summary", err)
	}
	stats.Summary = summary

	daily, err := s.analyticsRepo.DailyRevenue(ctx, from, to)
	if err != nil {
		return nil, storeErr("load daily revenue", err)
	}
	stats.Daily = daily

	// Only the counts are needed
	countOnly := &pagination.PaginationParams{Page: 1, PerPage: 1}

	_, stats.TotalCustomers, err = s.customerRepo.List(ctx, countOnly, "")
	if err != nil {
		return nil, storeErr("count customers", err)
	}

	pending := enum.InvoiceStatusPending
	notReturned := false
	_, stats.PendingInvoices, err = s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		InvoiceFilter: repository.InvoiceFilter{Status: &pending, Returned: &notReturned},
		Pagination:    countOnly,
	})
	if err != nil {
		return nil, storeErr("count pending invoices", err)
	}

	returned := true
	_, stats.ReturnedCount, err = s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		InvoiceFilter: repository.InvoiceFilter{Returned: &returned, StartDate: &from, EndDate: &to},
		Pagination:    countOnly,
	})
	if err != nil {
		return nil, storeErr("count returned invoices", err)
	}

	return stats, nil
}

// RevenueSummary returns the revenue figures for [from, to)
func (s *DashboardService) RevenueSummary(ctx context.Context, from, to time.Time) (*repository.RevenueSummary, error) {
	if to.IsZero() {
		to = s.now()
	}
	summary, err := s.analyticsRepo.RevenueSummary(ctx, from, to)
	return summary, storeErr("load revenue summary", err)
}
