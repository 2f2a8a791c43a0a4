package request

import "github.com/sangkips/laundry-api/internal/domain/entity"

// LoginRequest represents an employee sign-in at a shop
type LoginRequest struct {
	ShopSlug string `json:"shop_slug" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

// RegisterShopRequest opens a new shop with its first manager
type RegisterShopRequest struct {
	ShopName     string                 `json:"shop_name" binding:"required,min=2,max=255"`
	Slug         string                 `json:"slug" binding:"max=100"`
	ManagerName  string                 `json:"manager_name" binding:"max=255"`
	ManagerPhone string                 `json:"manager_phone" binding:"required"`
	PIN          string                 `json:"pin" binding:"required"`
	Settings     *entity.TenantSettings `json:"settings"`
}

// CreateEmployeeRequest adds a staff member to the shop
type CreateEmployeeRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Phone string `json:"phone" binding:"required"`
	Role  string `json:"role"`
	PIN   string `json:"pin" binding:"required"`
}

// UpdateEmployeeRequest changes a staff member. Omitted fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	PIN    *string `json:"pin"`
	Active *bool   `json:"active"`
}
