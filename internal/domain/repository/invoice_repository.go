package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create persists the invoice with its items
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID retrieves an invoice with its items and customer
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Invoice, error)
	// NextNumber allocates the next sequence value of the shop for period (YYYYMM)
	NextNumber(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)
	// UpdateStatus moves the payment status only when it still equals from.
	// It returns false when another writer got there first.
	UpdateStatus(ctx context.Context, invoice *entity.Invoice, from enum.InvoiceStatus) (bool, error)
	// MarkReturned records the return only when the invoice was not returned yet
	MarkReturned(ctx context.Context, invoice *entity.Invoice) (bool, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)
}

// InvoiceFilter holds the filters shared by page and cursor listing
type InvoiceFilter struct {
	Search     string
	Status     *enum.InvoiceStatus
	Returned   *bool
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	InvoiceFilter
	Pagination *pagination.PaginationParams
	SortBy     string
	SortOrder  string
}

// InvoiceCursorFilterParams contains cursor-based filtering for invoice queries
type InvoiceCursorFilterParams struct {
	InvoiceFilter
	Cursor *pagination.CursorParams
}
