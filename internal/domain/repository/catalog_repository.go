package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
)

// DepartmentRepository defines the interface for department data operations
type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error)
	Update(ctx context.Context, department *entity.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns departments ordered by position, with their sub items
	List(ctx context.Context) ([]entity.Department, error)
}

// SubItemRepository defines the interface for garment type data operations
type SubItemRepository interface {
	Create(ctx context.Context, subItem *entity.SubItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SubItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.SubItem, error)
	Update(ctx context.Context, subItem *entity.SubItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, departmentID *uuid.UUID) ([]entity.SubItem, error)
}

// ServiceRepository defines the interface for service data operations
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Service, error)
}

// SubItemServiceRepository defines the interface for per garment service offers
type SubItemServiceRepository interface {
	// Upsert creates the offer or updates its price
	Upsert(ctx context.Context, offer *entity.SubItemService) error
	Delete(ctx context.Context, subItemID, serviceID uuid.UUID) error
	// ListBySubItems returns the offers of the given garment types with their services
	ListBySubItems(ctx context.Context, subItemIDs []uuid.UUID) ([]entity.SubItemService, error)
}
