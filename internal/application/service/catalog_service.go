package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/pricing"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CatalogService handles departments, garment types, services and their prices
type CatalogService struct {
	departmentRepo repository.DepartmentRepository
	subItemRepo    repository.SubItemRepository
	serviceRepo    repository.ServiceRepository
	offerRepo      repository.SubItemServiceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	departmentRepo repository.DepartmentRepository,
	subItemRepo repository.SubItemRepository,
	serviceRepo repository.ServiceRepository,
	offerRepo repository.SubItemServiceRepository,
) *CatalogService {
	return &CatalogService{
		departmentRepo: departmentRepo,
		subItemRepo:    subItemRepo,
		serviceRepo:    serviceRepo,
		offerRepo:      offerRepo,
	}
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}
	return name, nil
}

func checkPrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: "must not be negative"}})
	}
	return nil
}

// Departments

// CreateDepartment creates a department of the current shop
func (s *CatalogService) CreateDepartment(ctx context.Context, name string, position int) (*entity.Department, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	name, err = requireName(name)
	if err != nil {
		return nil, err
	}
	department := &entity.Department{TenantID: tenantID, Name: name, Position: position}
	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, storeErr("create department", err)
	}
	return department, nil
}

// GetDepartment retrieves a department with its garment types
func (s *CatalogService) GetDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load department", err)
	}
	if department == nil {
		return nil, apperror.NewNotFoundError("Department")
	}
	return department, nil
}

// ListDepartments returns the departments of the shop in display order
func (s *CatalogService) ListDepartments(ctx context.Context) ([]entity.Department, error) {
	departments, err := s.departmentRepo.List(ctx)
	return departments, storeErr("list departments", err)
}

// UpdateDepartment renames or reorders a department
func (s *CatalogService) UpdateDepartment(ctx context.Context, id uuid.UUID, name *string, position *int) (*entity.Department, error) {
	department, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if department.Name, err = requireName(*name); err != nil {
			return nil, err
		}
	}
	if position != nil {
		department.Position = *position
	}
	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, storeErr("update department", err)
	}
	return department, nil
}

// DeleteDepartment removes a department
func (s *CatalogService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	return storeErr("delete department", s.departmentRepo.Delete(ctx, id))
}

// Sub items

// CreateSubItem creates a garment type inside a department
func (s *CatalogService) CreateSubItem(ctx context.Context, departmentID uuid.UUID, name string) (*entity.SubItem, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	name, err = requireName(name)
	if err != nil {
		return nil, err
	}
	subItem := &entity.SubItem{TenantID: tenantID, DepartmentID: departmentID, Name: name, Active: true}
	if err := s.subItemRepo.Create(ctx, subItem); err != nil {
		return nil, storeErr("create sub item", err)
	}
	return subItem, nil
}

// GetSubItem retrieves a garment type
func (s *CatalogService) GetSubItem(ctx context.Context, id uuid.UUID) (*entity.SubItem, error) {
	subItem, err := s.subItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load sub item", err)
	}
	if subItem == nil {
		return nil, apperror.NewNotFoundError("Sub item")
	}
	return subItem, nil
}

// ListSubItems returns garment types, optionally of one department
func (s *CatalogService) ListSubItems(ctx context.Context, departmentID *uuid.UUID) ([]entity.SubItem, error) {
	subItems, err := s.subItemRepo.List(ctx, departmentID)
	return subItems, storeErr("list sub items", err)
}

// UpdateSubItemInput represents the update sub item input
type UpdateSubItemInput struct {
	ID           uuid.UUID
	DepartmentID *uuid.UUID
	Name         *string
	Active       *bool
}

// UpdateSubItem updates a garment type
func (s *CatalogService) UpdateSubItem(ctx context.Context, input *UpdateSubItemInput) (*entity.SubItem, error) {
	subItem, err := s.GetSubItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.GetDepartment(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
		subItem.DepartmentID = *input.DepartmentID
	}
	if input.Name != nil {
		if subItem.Name, err = requireName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Active != nil {
		subItem.Active = *input.Active
	}
	if err := s.subItemRepo.Update(ctx, subItem); err != nil {
		return nil, storeErr("update sub item", err)
	}
	return subItem, nil
}

// DeleteSubItem removes a garment type
func (s *CatalogService) DeleteSubItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSubItem(ctx, id); err != nil {
		return err
	}
	return storeErr("delete sub item", s.subItemRepo.Delete(ctx, id))
}

// Services

// CreateService creates a service with its base price
func (s *CatalogService) CreateService(ctx context.Context, name string, basePrice decimal.Decimal) (*entity.Service, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	name, err = requireName(name)
	if err != nil {
		return nil, err
	}
	if err := checkPrice("base_price", basePrice); err != nil {
		return nil, err
	}
	service := &entity.Service{TenantID: tenantID, Name: name, BasePrice: basePrice, Active: true}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, storeErr("create service", err)
	}
	return service, nil
}

// GetService retrieves a service
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load service", err)
	}
	if service == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return service, nil
}

// ListServices returns all services of the shop
func (s *CatalogService) ListServices(ctx context.Context) ([]entity.Service, error) {
	services, err := s.serviceRepo.List(ctx)
	return services, storeErr("list services", err)
}

// UpdateServiceInput represents the update service input
type UpdateServiceInput struct {
	ID        uuid.UUID
	Name      *string
	BasePrice *decimal.Decimal
	Active    *bool
}

// UpdateService updates a service. Issued invoices keep the prices they were issued with.
func (s *CatalogService) UpdateService(ctx context.Context, input *UpdateServiceInput) (*entity.Service, error) {
	service, err := s.GetService(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if service.Name, err = requireName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.BasePrice != nil {
		if err := checkPrice("base_price", *input.BasePrice); err != nil {
			return nil, err
		}
		service.BasePrice = *input.BasePrice
	}
	if input.Active != nil {
		service.Active = *input.Active
	}
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, storeErr("update service", err)
	}
	return service, nil
}

// DeleteService removes a service
func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	return storeErr("delete service", s.serviceRepo.Delete(ctx, id))
}

// Offers

// SetSubItemPrice offers a service for a garment type. A nil price uses the service base price.
func (s *CatalogService) SetSubItemPrice(ctx context.Context, subItemID, serviceID uuid.UUID, price *decimal.Decimal) (*entity.SubItemService, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetSubItem(ctx, subItemID); err != nil {
		return nil, err
	}
	service, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if price != nil {
		if err := checkPrice("price", *price); err != nil {
			return nil, err
		}
	}

	offer := &entity.SubItemService{
		TenantID:  tenantID,
		SubItemID: subItemID,
		ServiceID: serviceID,
		Price:     price,
	}
	if err := s.offerRepo.Upsert(ctx, offer); err != nil {
		return nil, storeErr("save sub item price", err)
	}
	offer.Service = service
	return offer, nil
}

// RemoveSubItemService stops offering a service for a garment type
func (s *CatalogService) RemoveSubItemService(ctx context.Context, subItemID, serviceID uuid.UUID) error {
	return storeErr("remove sub item service", s.offerRepo.Delete(ctx, subItemID, serviceID))
}

// PricedService is a service with the price that applies to one garment type
type PricedService struct {
	ServiceID uuid.UUID       `json:"service_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ServicesForSubItem returns the active services offered for a garment type with
// their effective prices.
func (s *CatalogService) ServicesForSubItem(ctx context.Context, subItemID uuid.UUID) ([]PricedService, error) {
	if _, err := s.GetSubItem(ctx, subItemID); err != nil {
		return nil, err
	}
	offers, err := s.offerRepo.ListBySubItems(ctx, []uuid.UUID{subItemID})
	if err != nil {
		return nil, storeErr("list sub item services", err)
	}

	priced := make([]PricedService, 0, len(offers))
	for i := range offers {
		offer := offers[i]
		if offer.Service == nil || !offer.Service.Active {
			continue
		}
		priced = append(priced, PricedService{
			ServiceID: offer.ServiceID,
			Name:      offer.Service.Name,
			UnitPrice: entity.EffectivePrice(*offer.Service, &offer),
		})
	}
	return priced, nil
}

// LineServiceInput selects a service for a line. UnitPrice is the price the cashier
// saw when attaching the service; nil resolves it from the catalog.
type LineServiceInput struct {
	ServiceID uuid.UUID
	UnitPrice *decimal.Decimal
}

// LineInput is one garment line as sent by the point of sale
type LineInput struct {
	SubItemID uuid.UUID
	Quantity  int
	Services  []LineServiceInput
}

// ResolveLines turns point of sale lines into priced line items. Names always come
// from the catalog.
func (s *CatalogService) ResolveLines(ctx context.Context, lines []LineInput) ([]pricing.LineItem, error) {
	subItemIDs := make([]uuid.UUID, 0, len(lines))
	var serviceIDs []uuid.UUID
	for _, l := range lines {
		subItemIDs = append(subItemIDs, l.SubItemID)
		for _, svc := range l.Services {
			serviceIDs = append(serviceIDs, svc.ServiceID)
		}
	}

	subItems, err := s.subItemRepo.GetByIDs(ctx, subItemIDs)
	if err != nil {
		return nil, storeErr("load sub items", err)
	}
	services, err := s.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, storeErr("load services", err)
	}
	offers, err := s.offerRepo.ListBySubItems(ctx, subItemIDs)
	if err != nil {
		return nil, storeErr("load sub item prices", err)
	}

	subItemByID := make(map[uuid.UUID]entity.SubItem, len(subItems))
	for _, si := range subItems {
		subItemByID[si.ID] = si
	}
	serviceByID := make(map[uuid.UUID]entity.Service, len(services))
	for _, svc := range services {
		serviceByID[svc.ID] = svc
	}
	type offerKey struct{ subItem, service uuid.UUID }
	offerByKey := make(map[offerKey]*entity.SubItemService, len(offers))
	for i := range offers {
		offerByKey[offerKey{offers[i].SubItemID, offers[i].ServiceID}] = &offers[i]
	}

	items := make([]pricing.LineItem, 0, len(lines))
	for idx, l := range lines {
		subItem, ok := subItemByID[l.SubItemID]
		if !ok {
			return nil, apperror.NewNotFoundError("Sub item").With("line", idx).With("sub_item_id", l.SubItemID.String())
		}

		item := pricing.LineItem{
			SubItemID:    subItem.ID,
			SubItemName:  subItem.Name,
			DepartmentID: subItem.DepartmentID,
			Quantity:     l.Quantity,
		}
		if subItem.Department != nil {
			item.DepartmentName = subItem.Department.Name
		}

		for _, in := range l.Services {
			if item.HasService(in.ServiceID) {
				continue
			}
			svc, ok := serviceByID[in.ServiceID]
			if !ok {
				return nil, apperror.NewNotFoundError("Service").With("line", idx).With("service_id", in.ServiceID.String())
			}
			price := entity.EffectivePrice(svc, offerByKey[offerKey{subItem.ID, svc.ID}])
			if in.UnitPrice != nil {
				if err := checkPrice("unit_price", *in.UnitPrice); err != nil {
					return nil, err
				}
				price = *in.UnitPrice
			}
			item.Services = append(item.Services, pricing.ServiceLine{
				ServiceID:   svc.ID,
				ServiceName: svc.Name,
				UnitPrice:   price,
			})
		}
		items = append(items, item)
	}
	return items, nil
}
