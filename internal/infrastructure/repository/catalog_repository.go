package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) domainRepo.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, department *entity.Department) error {
	return conn(ctx, r.db).Create(department).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	var department entity.Department
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("SubItems", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&department, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &department, err
}

func (r *departmentRepository) Update(ctx context.Context, department *entity.Department) error {
	return conn(ctx, r.db).Omit("SubItems").Save(department).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Department{}, "id = ?", id).Error
}

func (r *departmentRepository) List(ctx context.Context) ([]entity.Department, error) {
	var departments []entity.Department
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("SubItems", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("position ASC, name ASC").
		Find(&departments).Error
	return departments, err
}

type subItemRepository struct {
	db *gorm.DB
}

// NewSubItemRepository creates a new sub item repository
func NewSubItemRepository(db *gorm.DB) domainRepo.SubItemRepository {
	return &subItemRepository{db: db}
}

func (r *subItemRepository) Create(ctx context.Context, subItem *entity.SubItem) error {
	return conn(ctx, r.db).Omit("Department").Create(subItem).Error
}

func (r *subItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SubItem, error) {
	var subItem entity.SubItem
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Department").
		First(&subItem, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subItem, err
}

func (r *subItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.SubItem, error) {
	var subItems []entity.SubItem
	if len(ids) == 0 {
		return subItems, nil
	}
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Department").
		Where("id IN ?", ids).
		Find(&subItems).Error
	return subItems, err
}

func (r *subItemRepository) Update(ctx context.Context, subItem *entity.SubItem) error {
	return conn(ctx, r.db).Omit("Department").Save(subItem).Error
}

func (r *subItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.SubItem{}, "id = ?", id).Error
}

func (r *subItemRepository) List(ctx context.Context, departmentID *uuid.UUID) ([]entity.SubItem, error) {
	var subItems []entity.SubItem
	query := conn(ctx, r.db).Scopes(TenantScope(ctx))
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	err := query.Order("name ASC").Find(&subItems).Error
	return subItems, err
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) domainRepo.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	return conn(ctx, r.db).Create(service).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var service entity.Service
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &service, err
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error) {
	var services []entity.Service
	if len(ids) == 0 {
		return services, nil
	}
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Where("id IN ?", ids).Find(&services).Error
	return services, err
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	return conn(ctx, r.db).Save(service).Error
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Service{}, "id = ?", id).Error
}

func (r *serviceRepository) List(ctx context.Context) ([]entity.Service, error) {
	var services []entity.Service
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Order("name ASC").Find(&services).Error
	return services, err
}

type subItemServiceRepository struct {
	db *gorm.DB
}

// NewSubItemServiceRepository creates a new sub item service repository
func NewSubItemServiceRepository(db *gorm.DB) domainRepo.SubItemServiceRepository {
	return &subItemServiceRepository{db: db}
}

func (r *subItemServiceRepository) Upsert(ctx context.Context, offer *entity.SubItemService) error {
	return conn(ctx, r.db).Omit("Service").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sub_item_id"}, {Name: "service_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(offer).Error
}

func (r *subItemServiceRepository) Delete(ctx context.Context, subItemID, serviceID uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("sub_item_id = ? AND service_id = ?", subItemID, serviceID).
		Delete(&entity.SubItemService{}).Error
}

func (r *subItemServiceRepository) ListBySubItems(ctx context.Context, subItemIDs []uuid.UUID) ([]entity.SubItemService, error) {
	var offers []entity.SubItemService
	if len(subItemIDs) == 0 {
		return offers, nil
	}
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Service").
		Where("sub_item_id IN ?", subItemIDs).
		Find(&offers).Error
	return offers, err
}
