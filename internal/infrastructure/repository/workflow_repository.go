package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type workSectionRepository struct {
	db *gorm.DB
}

// NewWorkSectionRepository creates a new work section repository
func NewWorkSectionRepository(db *gorm.DB) domainRepo.WorkSectionRepository {
	return &workSectionRepository{db: db}
}

func (r *workSectionRepository) EnsureDefaults(ctx context.Context, tenantID uuid.UUID, sections []entity.WorkSection) error {
	if len(sections) == 0 {
		return nil
	}
	for i := range sections {
		sections[i].TenantID = tenantID
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
		DoNothing: true,
	}).Create(&sections).Error
}

func (r *workSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.WorkSection, error) {
	var section entity.WorkSection
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &section, err
}

func (r *workSectionRepository) GetByCode(ctx context.Context, code string) (*entity.WorkSection, error) {
	var section entity.WorkSection
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&section, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &section, err
}

func (r *workSectionRepository) List(ctx context.Context) ([]entity.WorkSection, error) {
	var sections []entity.WorkSection
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Order("position ASC").Find(&sections).Error
	return sections, err
}

type workflowRepository struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new workflow record repository
func NewWorkflowRepository(db *gorm.DB) domainRepo.WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) Get(ctx context.Context, invoiceID, sectionID uuid.UUID) (*entity.WorkflowRecord, error) {
	var record entity.WorkflowRecord
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Section").
		First(&record, "invoice_id = ? AND section_id = ?", invoiceID, sectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *workflowRepository) Create(ctx context.Context, record *entity.WorkflowRecord) error {
	return translate(conn(ctx, r.db).Omit("Section").Create(record).Error)
}

// Update writes the mutable columns guarded by the version read by the caller.
// Uses: UPDATE workflow_records SET ..., version = version + 1 WHERE id = ? AND version = ?
func (r *workflowRepository) Update(ctx context.Context, record *entity.WorkflowRecord, expectedVersion int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.WorkflowRecord{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       record.Status,
			"employee_id":  record.EmployeeID,
			"started_at":   record.StartedAt,
			"completed_at": record.CompletedAt,
			"notes":        record.Notes,
			"version":      expectedVersion + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	record.Version = expectedVersion + 1
	return true, nil
}

func (r *workflowRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.WorkflowRecord, error) {
	var records []entity.WorkflowRecord
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Section").
		Where("invoice_id = ?", invoiceID).
		Find(&records).Error
	return records, err
}

func (r *workflowRepository) ListPending(ctx context.Context, sectionID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	completed := conn(ctx, r.db).Model(&entity.WorkflowRecord{}).
		Select("1").
		Where("workflow_records.invoice_id = invoices.id AND workflow_records.section_id = ? AND workflow_records.status = ?",
			sectionID, enum.WorkflowStatusCompleted)

	query := conn(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(QualifiedTenantScope(ctx, "invoices")).
		Where("invoices.is_returned = ? AND invoices.status <> ?", false, enum.InvoiceStatusCancelled).
		Where("NOT EXISTS (?)", completed)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("invoices.issued_at ASC").
		Find(&invoices).Error

	return invoices, total, err
}
