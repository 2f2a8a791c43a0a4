package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// TenantRepository defines the interface for shop data operations
type TenantRepository interface {
	// Create creates a new shop
	Create(ctx context.Context, tenant *entity.Tenant) error

	// GetByID retrieves a shop by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// GetBySlug retrieves a shop by slug
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	// UpdateSettings replaces the settings document of a shop
	UpdateSettings(ctx context.Context, id uuid.UUID, settings entity.TenantSettings) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListAll retrieves all shops
	ListAll(ctx context.Context, params *pagination.PaginationParams) ([]entity.Tenant, int64, error)
}

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	// GetByPhone looks the employee up inside the given shop. It ignores the context tenant.
	GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Employee, int64, error)
}
