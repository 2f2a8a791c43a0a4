package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueSummary aggregates issued invoices that were neither returned nor cancelled
type RevenueSummary struct {
	InvoiceCount int64           `json:"invoice_count"`
	PiecesCount  int64           `json:"pieces_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	Revenue      decimal.Decimal `json:"revenue"`
	// Outstanding is the amount still owed on pending invoices
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DailyRevenue represents revenue for a single day
type DailyRevenue struct {
	Date         string          `json:"date"`
	InvoiceCount int64           `json:"invoice_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// AnalyticsRepository defines the interface for dashboard queries
type AnalyticsRepository interface {
	RevenueSummary(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
	DailyRevenue(ctx context.Context, from, to time.Time) ([]DailyRevenue, error)
}
