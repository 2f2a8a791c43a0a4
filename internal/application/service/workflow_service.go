package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/internal/domain/workflow"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"go.uber.org/zap"
)

const notesAttempts = 3

// WorkflowService moves invoices through the work sections of a shop
type WorkflowService struct {
	sectionRepo  repository.WorkSectionRepository
	workflowRepo repository.WorkflowRepository
	invoiceRepo  repository.InvoiceRepository
	employeeRepo repository.EmployeeRepository
	settings     *SettingsService
	now          Clock
	log          *zap.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	sectionRepo repository.WorkSectionRepository,
	workflowRepo repository.WorkflowRepository,
	invoiceRepo repository.InvoiceRepository,
	employeeRepo repository.EmployeeRepository,
	settings *SettingsService,
	log *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		sectionRepo:  sectionRepo,
		workflowRepo: workflowRepo,
		invoiceRepo:  invoiceRepo,
		employeeRepo: employeeRepo,
		settings:     settings,
		now:          utcNow,
		log:          log,
	}
}

// ListSections returns the sections of the shop, seeding the standard ones on first use
func (s *WorkflowService) ListSections(ctx context.Context) ([]entity.WorkSection, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sectionRepo.EnsureDefaults(ctx, tenantID, entity.DefaultWorkSections(tenantID)); err != nil {
		return nil, storeErr("seed work sections", err)
	}
	sections, err := s.sectionRepo.List(ctx)
	return sections, storeErr("list work sections", err)
}

// ResolveSection finds a section by ID or by code
func (s *WorkflowService) ResolveSection(ctx context.Context, ref string) (*entity.WorkSection, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.section(ctx, id)
	}
	section, err := s.sectionRepo.GetByCode(ctx, ref)
	if err != nil {
		return nil, storeErr("load work section", err)
	}
	if section == nil {
		// Standard sections are only seeded when a code is not found
		if _, err := s.ListSections(ctx); err != nil {
			return nil, err
		}
		if section, err = s.sectionRepo.GetByCode(ctx, ref); err != nil {
			return nil, storeErr("load work section", err)
		}
	}
	if section == nil {
		return nil, apperror.NewNotFoundError("Work section")
	}
	return section, nil
}

func (s *WorkflowService) section(ctx context.Context, id uuid.UUID) (*entity.WorkSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load work section", err)
	}
	if section == nil {
		return nil, apperror.NewNotFoundError("Work section")
	}
	return section, nil
}

func (s *WorkflowService) invoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

func (s *WorkflowService) record(ctx context.Context, invoiceID, sectionID uuid.UUID) (*entity.WorkflowRecord, error) {
	rec, err := s.workflowRepo.Get(ctx, invoiceID, sectionID)
	return rec, storeErr("load workflow record", err)
}

// checkOrder applies the section order rule when the shop enforces it
func (s *WorkflowService) checkOrder(ctx context.Context, invoiceID uuid.UUID, section *entity.WorkSection) error {
	policy, err := s.settings.Policy(ctx)
	if err != nil {
		return err
	}
	previousCode := workflow.PreviousSection(section.Code)
	if !policy.EnforceSectionOrder || previousCode == "" {
		return nil
	}

	previous, err := s.sectionRepo.GetByCode(ctx, previousCode)
	if err != nil {
		return storeErr("load work section", err)
	}
	if previous == nil {
		return nil
	}
	prevRec, err := s.record(ctx, invoiceID, previous.ID)
	if err != nil {
		return err
	}
	return workflow.CheckOrder(true, previousCode, prevRec.CurrentStatus())
}

// StartWork puts an invoice in progress in a section. A second start, including a
// concurrent one, fails with AlreadyStarted.
func (s *WorkflowService) StartWork(ctx context.Context, invoiceID, sectionID uuid.UUID, employeeID *uuid.UUID) (*entity.WorkflowRecord, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.AcceptsWork() {
		reason := "cancelled"
		if invoice.IsReturned {
			reason = "returned"
		}
		return nil, apperror.ErrInvalidStatusTransition.
			With("reason", reason).
			With("invoice_number", invoice.InvoiceNumber)
	}

	section, err := s.section(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if employeeID != nil {
		employee, err := s.employeeRepo.GetByID(ctx, *employeeID)
		if err != nil {
			return nil, storeErr("load employee", err)
		}
		if employee == nil {
			return nil, apperror.NewNotFoundError("Employee")
		}
	}

	if err := s.checkOrder(ctx, invoiceID, section); err != nil {
		return nil, err
	}

	rec, err := s.record(ctx, invoiceID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanStart(rec.CurrentStatus()); err != nil {
		return nil, err
	}

	now := s.now()
	alreadyStarted := apperror.ErrAlreadyStarted.With("section", section.Code).With("invoice_number", invoice.InvoiceNumber)

	if rec == nil {
		rec = &entity.WorkflowRecord{
			TenantID:   tenantID,
			InvoiceID:  invoiceID,
			SectionID:  sectionID,
			Status:     enum.WorkflowStatusInProgress,
			EmployeeID: employeeID,
			StartedAt:  &now,
		}
		if err := s.workflowRepo.Create(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, alreadyStarted
			}
			return nil, storeErr("start work", err)
		}
	} else {
		expected := rec.Version
		rec.Status = enum.WorkflowStatusInProgress
		rec.EmployeeID = employeeID
		rec.StartedAt = &now
		ok, err := s.workflowRepo.Update(ctx, rec, expected)
		if err != nil {
			return nil, storeErr("start work", err)
		}
		if !ok {
			return nil, alreadyStarted
		}
	}

	rec.Section = section
	logger.FromContextOr(ctx, s.log).Info("work started",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("section", section.Code),
	)
	return rec, nil
}

// CompleteWork finishes the work in progress in a section
func (s *WorkflowService) CompleteWork(ctx context.Context, invoiceID, sectionID uuid.UUID, employeeID *uuid.UUID) (*entity.WorkflowRecord, error) {
	invoice, err := s.invoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	section, err := s.section(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	rec, err := s.record(ctx, invoiceID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanComplete(rec.CurrentStatus()); err != nil {
		return nil, apperror.GetAppError(err).With("section", section.Code)
	}

	now := s.now()
	expected := rec.Version
	rec.Status = enum.WorkflowStatusCompleted
	rec.CompletedAt = &now
	if employeeID != nil {
		rec.EmployeeID = employeeID
	}

	ok, err := s.workflowRepo.Update(ctx, rec, expected)
	if err != nil {
		return nil, storeErr("complete work", err)
	}
	if !ok {
		// Someone else completed it between our read and write
		return nil, apperror.ErrNotStarted.With("section", section.Code).With("status", enum.WorkflowStatusCompleted.String())
	}

	rec.Section = section
	logger.FromContextOr(ctx, s.log).Info("work completed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("section", section.Code),
	)
	return rec, nil
}

// SetNotes stores free text for an invoice in a section at any stage, including
// before work starts.
func (s *WorkflowService) SetNotes(ctx context.Context, invoiceID, sectionID uuid.UUID, notes string) (*entity.WorkflowRecord, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.invoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	section, err := s.section(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < notesAttempts; attempt++ {
		rec, err := s.record(ctx, invoiceID, sectionID)
		if err != nil {
			return nil, err
		}

		if rec == nil {
			rec = &entity.WorkflowRecord{
				TenantID:  tenantID,
				InvoiceID: invoiceID,
				SectionID: sectionID,
				Status:    enum.WorkflowStatusNotStarted,
				Notes:     notes,
			}
			err := s.workflowRepo.Create(ctx, rec)
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			if err != nil {
				return nil, storeErr("save notes", err)
			}
			rec.Section = section
			return rec, nil
		}

		expected := rec.Version
		rec.Notes = notes
		ok, err := s.workflowRepo.Update(ctx, rec, expected)
		if err != nil {
			return nil, storeErr("save notes", err)
		}
		if ok {
			rec.Section = section
			return rec, nil
		}
	}

	return nil, apperror.NewConflictError("Workflow record is being updated, try again").With("section", section.Code)
}

// ListPending returns the invoices that still have work left in a section
func (s *WorkflowService) ListPending(ctx context.Context, sectionID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	if _, err := s.section(ctx, sectionID); err != nil {
		return nil, err
	}
	invoices, total, err := s.workflowRepo.ListPending(ctx, sectionID, params)
	if err != nil {
		return nil, storeErr("list pending invoices", err)
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// SectionProgress is the state of one invoice in one section
type SectionProgress struct {
	Section *entity.WorkSection    `json:"section"`
	Status  enum.WorkflowStatus    `json:"status"`
	Record  *entity.WorkflowRecord `json:"record,omitempty"`
}

// InvoiceProgress returns the state of an invoice in every section, in processing order
func (s *WorkflowService) InvoiceProgress(ctx context.Context, invoiceID uuid.UUID) ([]SectionProgress, error) {
	if _, err := s.invoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	sections, err := s.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.workflowRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, storeErr("load workflow records", err)
	}

	bySection := make(map[uuid.UUID]*entity.WorkflowRecord, len(records))
	for i := range records {
		records[i].Section = nil
		bySection[records[i].SectionID] = &records[i]
	}

	progress := make([]SectionProgress, len(sections))
	for i := range sections {
		rec := bySection[sections[i].ID]
		progress[i] = SectionProgress{
			Section: &sections[i],
			Status:  rec.CurrentStatus(),
			Record:  rec,
		}
	}
	return progress, nil
}
