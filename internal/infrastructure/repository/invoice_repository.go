package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return translate(conn(ctx, r.db).Omit("Customer").Create(invoice).Error)
}

func (r *invoiceRepository) withDetails(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Scopes(TenantScope(ctx)).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.withDetails(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.withDetails(ctx).First(&invoice, "invoice_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.withDetails(ctx).First(&invoice, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// NextNumber allocates the next number of the period in one upsert. The first
// invoice of a period inserts the row; later ones bump it and read it back.
func (r *invoiceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	seq := entity.InvoiceSequence{TenantID: tenantID, Period: period, LastNumber: 1}

	err := conn(ctx, r.db).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "tenant_id"}, {Name: "period"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"last_number": gorm.Expr("invoice_sequences.last_number + 1"),
					"updated_at":  gorm.Expr("excluded.updated_at"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_number"}}},
		).
		Create(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, invoice *entity.Invoice, from enum.InvoiceStatus) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND status = ? AND is_returned = ?", invoice.ID, from, false).
		Updates(map[string]interface{}{
			"status":       invoice.Status,
			"paid_at":      invoice.PaidAt,
			"cancelled_at": invoice.CancelledAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invoiceRepository) MarkReturned(ctx context.Context, invoice *entity.Invoice) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND is_returned = ?", invoice.ID, false).
		Updates(map[string]interface{}{
			"is_returned": true,
			"return_code": invoice.ReturnCode,
			"returned_at": invoice.ReturnedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invoiceRepository) filter(query *gorm.DB, f domainRepo.InvoiceFilter) *gorm.DB {
	if f.Search != "" {
		p := likePattern(f.Search)
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(order_number) LIKE ? OR LOWER(return_code) LIKE ?", p, p, p)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.Returned != nil {
		query = query.Where("is_returned = ?", *f.Returned)
	}
	if f.CustomerID != nil {
		query = query.Where("customer_id = ?", *f.CustomerID)
	}
	if f.StartDate != nil {
		query = query.Where("issued_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("issued_at <= ?", *f.EndDate)
	}
	return query
}

var invoiceSortColumns = map[string]bool{
	"issued_at":      true,
	"created_at":     true,
	"invoice_number": true,
	"total":          true,
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.filter(conn(ctx, r.db).Model(&entity.Invoice{}).Scopes(TenantScope(ctx)), params.InvoiceFilter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "issued_at"
	sortOrder := "DESC"
	if invoiceSortColumns[params.SortBy] {
		sortBy = params.SortBy
	}
	if strings.EqualFold(params.SortOrder, "ASC") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Order("id " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListWithCursor(ctx context.Context, params *domainRepo.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	params.Cursor.Validate()
	query := r.filter(conn(ctx, r.db).Model(&entity.Invoice{}).Scopes(TenantScope(ctx)), params.InvoiceFilter)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	query = applyCursor(query, cursor, params.Cursor.Direction, "")

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order(keysetOrder(params.Cursor)).
		Find(&invoices).Error

	return invoices, err
}
