package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepartmentRequest represents a department create or update request
type DepartmentRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Position *int    `json:"position"`
}

// CreateSubItemRequest adds a garment type to a department
type CreateSubItemRequest struct {
	DepartmentID uuid.UUID `json:"department_id"`
	Name         string    `json:"name" binding:"required,max=255"`
}

// UpdateSubItemRequest changes a garment type
type UpdateSubItemRequest struct {
	DepartmentID *uuid.UUID `json:"department_id"`
	Name         *string    `json:"name" binding:"omitempty,max=255"`
	Active       *bool      `json:"active"`
}

// CreateServiceRequest adds a service with its base price
type CreateServiceRequest struct {
	Name      string          `json:"name" binding:"required,max=255"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// UpdateServiceRequest changes a service
type UpdateServiceRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=255"`
	BasePrice *decimal.Decimal `json:"base_price"`
	Active    *bool            `json:"active"`
}

// SubItemPriceRequest offers a service for a garment type. A null price uses the
// base price of the service.
type SubItemPriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}
