package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest represents the shop settings update. Omitted fields are left
// unchanged; a null tax_rate together with clear_tax_rate falls back to the default.
type UpdateSettingsRequest struct {
	ShopPhone            *string          `json:"shop_phone"`
	ShopAddress          *string          `json:"shop_address"`
	VATNumber            *string          `json:"vat_number"`
	Currency             *string          `json:"currency" binding:"omitempty,len=3"`
	Timezone             *string          `json:"timezone"`
	Locale               *string          `json:"locale"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	ClearTaxRate         bool             `json:"clear_tax_rate"`
	TaxLabel             *string          `json:"tax_label"`
	InvoicePrefix        *string          `json:"invoice_prefix" binding:"omitempty,max=20"`
	DefaultInvoiceStatus *string          `json:"default_invoice_status"`
	RequireFullPayment   *bool            `json:"require_full_payment"`
	EnforceSectionOrder  *bool            `json:"enforce_section_order"`
}
