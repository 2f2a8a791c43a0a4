package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineServiceRequest selects a service on a cart line. UnitPrice is the price shown
// at the point of sale; omit it to use the catalog price.
type LineServiceRequest struct {
	ServiceID uuid.UUID        `json:"service_id"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// LineRequest is one garment line of a cart
type LineRequest struct {
	SubItemID uuid.UUID            `json:"sub_item_id"`
	Quantity  int                  `json:"quantity"`
	Services  []LineServiceRequest `json:"services"`
}

// QuoteRequest prices an open cart
type QuoteRequest struct {
	Lines      []LineRequest   `json:"line_items"`
	Discount   decimal.Decimal `json:"discount"`
	CouponCode string          `json:"coupon_code"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// IssueInvoiceRequest checks out a cart
type IssueInvoiceRequest struct {
	CustomerID    *uuid.UUID      `json:"customer_id"`
	Lines         []LineRequest   `json:"line_items"`
	Discount      decimal.Decimal `json:"discount"`
	CouponCode    string          `json:"coupon_code"`
	PaymentMethod string          `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Status        *string         `json:"status"`
	Notes         *string         `json:"notes"`
}

// ReturnInvoiceRequest hands the garments back. An empty code uses the default.
type ReturnInvoiceRequest struct {
	ReturnCode string `json:"return_code"`
}

// WorkRequest names the operator doing the work. The signed-in employee is used when empty.
type WorkRequest struct {
	EmployeeID *uuid.UUID `json:"employee_id"`
}

// WorkNotesRequest stores notes for an invoice in a section
type WorkNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}
