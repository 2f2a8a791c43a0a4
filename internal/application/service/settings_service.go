package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShopPolicy is the resolved set of business rules for one shop
type ShopPolicy struct {
	TaxRate             decimal.Decimal    `json:"tax_rate"`
	Currency            string             `json:"currency"`
	InvoicePrefix       string             `json:"invoice_prefix"`
	DefaultStatus       enum.InvoiceStatus `json:"default_invoice_status"`
	RequireFullPayment  bool               `json:"require_full_payment"`
	EnforceSectionOrder bool               `json:"enforce_section_order"`
	// Location is the shop time zone used for the invoice number period
	Location *time.Location `json:"-"`
}

// SettingsService handles shop settings and resolves them against the defaults
type SettingsService struct {
	tenantRepo repository.TenantRepository
	defaults   Defaults
	log        *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(tenantRepo repository.TenantRepository, defaults Defaults, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{
		tenantRepo: tenantRepo,
		defaults:   defaults,
		log:        log,
	}
}

// GetSettings returns the shop of the current context
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Tenant, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, tenantID)
}

func (s *SettingsService) load(ctx context.Context, tenantID uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, storeErr("load shop", err)
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	return tenant, nil
}

// Policy resolves the effective business rules of the current shop
func (s *SettingsService) Policy(ctx context.Context) (*ShopPolicy, error) {
	tenant, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.policyFor(tenant.Settings), nil
}

func (s *SettingsService) policyFor(settings entity.TenantSettings) *ShopPolicy {
	currency := settings.Currency
	if currency == "" {
		currency = s.defaults.Currency
	}
	loc := time.UTC
	if settings.Timezone != "" {
		if l, err := time.LoadLocation(settings.Timezone); err == nil {
			loc = l
		} else {
			s.log.Warn("unknown shop time zone, using UTC", zap.String("timezone", settings.Timezone))
		}
	}
	return &ShopPolicy{
		Location:            loc,
		TaxRate:             settings.EffectiveTaxRate(s.defaults.TaxRate),
		Currency:            currency,
		InvoicePrefix:       settings.InvoicePrefix,
		DefaultStatus:       settings.InvoiceStatusOr(s.defaults.InvoiceStatus),
		RequireFullPayment:  settings.RequireFullPayment,
		EnforceSectionOrder: settings.SectionOrderEnforced(s.defaults.EnforceSectionOrder),
	}
}

// UpdateSettingsInput represents the input for updating shop settings.
// Nil fields are left unchanged.
type UpdateSettingsInput struct {
	ShopPhone            *string
	ShopAddress          *string
	VATNumber            *string
	Currency             *string
	Timezone             *string
	Locale               *string
	TaxRate              *decimal.Decimal
	ClearTaxRate         bool
	TaxLabel             *string
	InvoicePrefix        *string
	DefaultInvoiceStatus *string
	RequireFullPayment   *bool
	EnforceSectionOrder  *bool
}

// UpdateSettings validates and stores the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Tenant, error) {
	tenant, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	settings := tenant.Settings

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&settings.ShopPhone, input.ShopPhone)
	assign(&settings.ShopAddress, input.ShopAddress)
	assign(&settings.VATNumber, input.VATNumber)
	assign(&settings.Currency, input.Currency)
	assign(&settings.Timezone, input.Timezone)
	assign(&settings.Locale, input.Locale)
	assign(&settings.TaxLabel, input.TaxLabel)
	assign(&settings.InvoicePrefix, input.InvoicePrefix)

	if input.Timezone != nil && settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "timezone", Message: "is not a known time zone"})
		}
	}

	switch {
	case input.ClearTaxRate:
		settings.TaxRate = nil
	case input.TaxRate != nil:
		if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_rate", Message: "must be between 0 and 100"})
		} else {
			rate := *input.TaxRate
			settings.TaxRate = &rate
		}
	}

	if input.DefaultInvoiceStatus != nil {
		status, err := enum.ParseInvoiceStatus(*input.DefaultInvoiceStatus)
		if err != nil || status == enum.InvoiceStatusCancelled {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "default_invoice_status", Message: "must be paid or pending"})
		} else {
			settings.DefaultInvoiceStatus = status.String()
		}
	}
	if input.RequireFullPayment != nil {
		settings.RequireFullPayment = *input.RequireFullPayment
	}
	if input.EnforceSectionOrder != nil {
		enforce := *input.EnforceSectionOrder
		settings.EnforceSectionOrder = &enforce
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.tenantRepo.UpdateSettings(ctx, tenant.ID, settings); err != nil {
		return nil, storeErr("update settings", err)
	}
	tenant.Settings = settings

	logger.FromContextOr(ctx, s.log).Info("shop settings updated", zap.String("tenant_id", tenant.ID.String()))
	return tenant, nil
}
