package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the immutable financial record of a sale. Only the payment status and
// the return flag change after issuance.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_tenant_number;uniqueIndex:idx_invoice_tenant_idem;index" json:"tenant_id"`
	InvoiceNumber  string             `gorm:"size:100;not null;uniqueIndex:idx_invoice_tenant_number" json:"invoice_number"`
	OrderNumber    string             `gorm:"size:100;not null" json:"order_number"`
	CustomerID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	EmployeeID     *uuid.UUID         `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	Subtotal       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount"`
	TaxRate        decimal.Decimal    `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Tax            decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total          decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total"`
	PiecesCount    int                `gorm:"not null" json:"pieces_count"`
	CouponCode     *string            `gorm:"size:100" json:"coupon_code,omitempty"`
	PaymentMethod  enum.PaymentMethod `gorm:"size:30;not null" json:"payment_method"`
	AmountPaid     decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	Remaining      decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"remaining"`
	Status         enum.InvoiceStatus `gorm:"not null;index" json:"status"`
	IsReturned     bool               `gorm:"not null;index" json:"is_returned"`
	ReturnCode     *string            `gorm:"size:100" json:"return_code,omitempty"`
	ReturnedAt     *time.Time         `json:"returned_at,omitempty"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	IdempotencyKey *string            `gorm:"size:255;uniqueIndex:idx_invoice_tenant_idem" json:"-"`
	IssuedAt       time.Time          `gorm:"not null;index" json:"issued_at"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Breakdown returns the frozen financial figures of the invoice.
func (i *Invoice) Breakdown() pricing.Breakdown {
	b := pricing.Breakdown{
		Subtotal:    i.Subtotal,
		Discount:    i.Discount,
		TaxableBase: pricing.TaxableBase(i.Subtotal, i.Discount),
		TaxRate:     i.TaxRate,
		Tax:         i.Tax,
		Total:       i.Total,
		PiecesCount: i.PiecesCount,
		AmountPaid:  i.AmountPaid,
		Remaining:   i.Remaining,
	}
	if i.CouponCode != nil {
		b.CouponCode = *i.CouponCode
	}
	return b
}

// Return marks the garments as handed back. It is one-way and leaves the financial
// figures untouched. An empty code defaults to the invoice number suffixed with W.
func (i *Invoice) Return(code string, now time.Time) error {
	if i.IsReturned {
		return apperror.ErrAlreadyReturned.With("invoice_number", i.InvoiceNumber)
	}
	if code == "" {
		code = pricing.ReturnCode(i.InvoiceNumber)
	}
	i.IsReturned = true
	i.ReturnCode = &code
	i.ReturnedAt = &now
	return nil
}

// TransitionTo moves the payment status. Returned invoices keep their payment status.
func (i *Invoice) TransitionTo(next enum.InvoiceStatus, now time.Time) error {
	if i.IsReturned {
		return apperror.ErrInvalidStatusTransition.
			With("reason", "returned").
			With("from", i.Status.String()).
			With("to", next.String())
	}
	if !i.Status.CanTransitionTo(next) {
		return apperror.ErrInvalidStatusTransition.
			With("from", i.Status.String()).
			With("to", next.String())
	}
	i.Status = next
	switch next {
	case enum.InvoiceStatusPaid:
		i.PaidAt = &now
	case enum.InvoiceStatusCancelled:
		i.CancelledAt = &now
	}
	return nil
}

// AcceptsWork reports whether garments on the invoice may still move through the sections.
func (i *Invoice) AcceptsWork() bool {
	return !i.IsReturned && i.Status != enum.InvoiceStatusCancelled
}

// InvoiceItem is a frozen line item of an invoice
type InvoiceItem struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position       int                   `gorm:"not null" json:"position"`
	SubItemID      uuid.UUID             `gorm:"type:uuid;not null" json:"sub_item_id"`
	SubItemName    string                `gorm:"size:255;not null" json:"sub_item_name"`
	DepartmentID   *uuid.UUID            `gorm:"type:uuid" json:"department_id,omitempty"`
	DepartmentName string                `gorm:"size:255" json:"department_name,omitempty"`
	Quantity       int                   `gorm:"not null" json:"quantity"`
	UnitTotal      decimal.Decimal       `gorm:"type:numeric(12,2);not null" json:"unit_total"`
	LineTotal      decimal.Decimal       `gorm:"type:numeric(12,2);not null" json:"line_total"`
	Services       []pricing.ServiceLine `gorm:"type:jsonb;serializer:json" json:"services"`
	CreatedAt      time.Time             `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem freezes a cart line.
func NewInvoiceItem(position int, line pricing.LineItem) InvoiceItem {
	item := InvoiceItem{
		Position:       position,
		SubItemID:      line.SubItemID,
		SubItemName:    line.SubItemName,
		DepartmentName: line.DepartmentName,
		Quantity:       line.Quantity,
		UnitTotal:      pricing.Round(line.UnitTotal()),
		LineTotal:      pricing.Round(line.LineTotal()),
		Services:       line.Services,
	}
	if line.DepartmentID != uuid.Nil {
		dept := line.DepartmentID
		item.DepartmentID = &dept
	}
	return item
}

// InvoiceSequence tracks the last invoice number allocated per shop and month
type InvoiceSequence struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	Period     string    `gorm:"size:6;primaryKey" json:"period"` // YYYYMM
	LastNumber int64     `gorm:"not null" json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
