package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee roles
const (
	EmployeeRoleManager  = "manager"
	EmployeeRoleCashier  = "cashier"
	EmployeeRoleOperator = "operator"
)

// Employee is a shop worker. Cashiers issue invoices and operators move garments
// through the work sections.
type Employee struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_employee_tenant_phone" json:"tenant_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Phone     *string        `gorm:"size:50;uniqueIndex:idx_employee_tenant_phone" json:"phone,omitempty"`
	Role      string         `gorm:"size:50;default:'operator'" json:"role"`
	PinHash   string         `gorm:"size:255" json:"-"`
	Active    bool           `gorm:"not null" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new employee
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
