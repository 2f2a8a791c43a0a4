package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tenant represents a laundry shop. Every shop owns its own catalog, customers,
// coupons, invoices and work sections.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds all customizable shop configuration
type TenantSettings struct {
	// Receipt header
	ShopPhone   string `json:"shop_phone,omitempty"`
	ShopAddress string `json:"shop_address,omitempty"`
	VATNumber   string `json:"vat_number,omitempty"`

	// Localization
	Currency string `json:"currency,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Locale   string `json:"locale,omitempty"`

	// Business Configuration
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"` // percentage; nil falls back to the configured default
	TaxLabel      string           `json:"tax_label,omitempty"`
	InvoicePrefix string           `json:"invoice_prefix,omitempty"`

	// Invoice and workflow behaviour. Nil/empty values fall back to configuration.
	DefaultInvoiceStatus string `json:"default_invoice_status,omitempty"`
	RequireFullPayment   bool   `json:"require_full_payment,omitempty"`
	EnforceSectionOrder  *bool  `json:"enforce_section_order,omitempty"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// EffectiveTaxRate returns the shop's tax rate or fallback when none is set.
func (ts TenantSettings) EffectiveTaxRate(fallback decimal.Decimal) decimal.Decimal {
	if ts.TaxRate != nil {
		return *ts.TaxRate
	}
	return fallback
}

// SectionOrderEnforced returns the shop's flag or fallback when none is set.
func (ts TenantSettings) SectionOrderEnforced(fallback bool) bool {
	if ts.EnforceSectionOrder != nil {
		return *ts.EnforceSectionOrder
	}
	return fallback
}

// InvoiceStatusOr returns the shop's default issuance status, or fallback when unset or invalid.
func (ts TenantSettings) InvoiceStatusOr(fallback enum.InvoiceStatus) enum.InvoiceStatus {
	if ts.DefaultInvoiceStatus == "" {
		return fallback
	}
	s, err := enum.ParseInvoiceStatus(ts.DefaultInvoiceStatus)
	if err != nil || s == enum.InvoiceStatusCancelled {
		return fallback
	}
	return s
}

// DefaultTenantSettings returns default settings for new shops
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency: "SAR",
		Timezone: "Asia/Riyadh",
		Locale:   "ar-SA",
		TaxLabel: "VAT",
	}
}
