package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Department groups garment types, e.g. men, women, household
type Department struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Position  int            `gorm:"default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	SubItems []SubItem `gorm:"foreignKey:DepartmentID" json:"sub_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new department
func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Department model
func (Department) TableName() string {
	return "departments"
}

// SubItem is a garment type, e.g. shirt or thobe
type SubItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"department_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Active       bool           `gorm:"not null" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sub item
func (s *SubItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SubItem model
func (SubItem) TableName() string {
	return "sub_items"
}

// Service is a processing operation sold per piece, e.g. wash or iron
type Service struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	BasePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	Active    bool            `gorm:"not null" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new service
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// SubItemService offers a service for a garment type, optionally at its own price
type SubItemService struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SubItemID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sub_item_service" json:"sub_item_id"`
	ServiceID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sub_item_service" json:"service_id"`
	Price     *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Relationships
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sub item service
func (s *SubItemService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SubItemService model
func (SubItemService) TableName() string {
	return "sub_item_services"
}

// EffectivePrice is the override price when one is set, otherwise the service base price.
func EffectivePrice(service Service, override *SubItemService) decimal.Decimal {
	if override != nil && override.Price != nil {
		return *override.Price
	}
	return service.BasePrice
}
