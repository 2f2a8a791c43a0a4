package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/workflow"
	"gorm.io/gorm"
)

// WorkSection is a physical processing station in a shop
type WorkSection struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_tenant_code" json:"tenant_id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:idx_section_tenant_code" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new work section
func (s *WorkSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WorkSection model
func (WorkSection) TableName() string {
	return "work_sections"
}

// DefaultWorkSections returns the standard sections of a new shop
func DefaultWorkSections(tenantID uuid.UUID) []WorkSection {
	defs := workflow.DefaultSections()
	sections := make([]WorkSection, len(defs))
	for i, d := range defs {
		sections[i] = WorkSection{TenantID: tenantID, Code: d.Code, Name: d.Name, Position: d.Position}
	}
	return sections
}

// WorkflowRecord tracks one invoice inside one section. A missing record means the
// work has not started.
type WorkflowRecord struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InvoiceID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_workflow_invoice_section" json:"invoice_id"`
	SectionID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_workflow_invoice_section;index" json:"section_id"`
	Status      enum.WorkflowStatus `gorm:"size:20;not null" json:"status"`
	EmployeeID  *uuid.UUID          `gorm:"type:uuid" json:"employee_id,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Notes       string              `gorm:"type:text" json:"notes"`
	Version     int                 `gorm:"not null;default:1" json:"-"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Relationships
	Section *WorkSection `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// BeforeCreate generates a UUID before creating a new workflow record
func (r *WorkflowRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// TableName returns the table name for the WorkflowRecord model
func (WorkflowRecord) TableName() string {
	return "workflow_records"
}

// CurrentStatus returns the record status, treating a nil record as not started.
func (r *WorkflowRecord) CurrentStatus() enum.WorkflowStatus {
	if r == nil {
		return enum.WorkflowStatusNotStarted
	}
	return r.Status
}
