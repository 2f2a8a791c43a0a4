package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// WorkSectionRepository defines the interface for work section data operations
type WorkSectionRepository interface {
	// EnsureDefaults creates the missing sections of the shop
	EnsureDefaults(ctx context.Context, tenantID uuid.UUID, sections []entity.WorkSection) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.WorkSection, error)
	GetByCode(ctx context.Context, code string) (*entity.WorkSection, error)
	// List returns the sections of the shop ordered by position
	List(ctx context.Context) ([]entity.WorkSection, error)
}

// WorkflowRepository defines the interface for workflow record data operations
type WorkflowRepository interface {
	Get(ctx context.Context, invoiceID, sectionID uuid.UUID) (*entity.WorkflowRecord, error)
	// Create inserts a new record. A second record for the same invoice and
	// section fails with ErrDuplicate.
	Create(ctx context.Context, record *entity.WorkflowRecord) error
	// Update writes the record only if its stored version still equals expectedVersion,
	// then bumps the version. It returns false when the guard did not match.
	Update(ctx context.Context, record *entity.WorkflowRecord, expectedVersion int) (bool, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.WorkflowRecord, error)
	// ListPending returns invoices that still accept work and have no completed
	// record for the section
	ListPending(ctx context.Context, sectionID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
}
