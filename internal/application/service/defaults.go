package service

import (
	"time"

	"github.com/sangkips/laundry-api/internal/config"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Defaults are the process-wide fallbacks used when a shop has not configured a value
type Defaults struct {
	TaxRate             decimal.Decimal
	Currency            string
	InvoiceStatus       enum.InvoiceStatus
	EnforceSectionOrder bool
}

// DefaultsFromConfig builds service defaults from the loaded configuration
func DefaultsFromConfig(cfg *config.Config) Defaults {
	d := Defaults{
		TaxRate:             pricing.DefaultTaxRate,
		Currency:            cfg.Pricing.Currency,
		InvoiceStatus:       enum.InvoiceStatusPaid,
		EnforceSectionOrder: cfg.Workflow.EnforceSectionOrder,
	}
	if cfg.Pricing.DefaultTaxRate >= 0 {
		d.TaxRate = decimal.NewFromFloat(cfg.Pricing.DefaultTaxRate)
	}
	if status, err := enum.ParseInvoiceStatus(cfg.Invoice.DefaultStatus); err == nil && status != enum.InvoiceStatusCancelled {
		d.InvoiceStatus = status
	}
	return d
}

// Clock returns the current time. Services keep it as a field so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// storeErr leaves application errors untouched and wraps everything else as a
// retryable persistence failure.
func storeErr(op string, err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewPersistenceError(op, err)
}
