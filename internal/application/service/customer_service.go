package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CreateCustomer creates a new customer. A phone already on file returns a conflict.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}

	phone := trimmed(input.Phone)
	if phone != nil {
		existing, err := s.customerRepo.GetByPhone(ctx, *phone)
		if err != nil {
			return nil, storeErr("look up customer", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A customer with this phone already exists").With("customer_id", existing.ID.String())
		}
	}

	customer := &entity.Customer{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    trimmed(input.Email),
		Address:  trimmed(input.Address),
		Notes:    trimmed(input.Notes),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, storeErr("create customer", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load customer", err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// FindByPhone looks a customer up by phone number
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, storeErr("look up customer", err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists the customers of the current shop
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, storeErr("list customers", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers using cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultCursorParams()
	}
	if _, err := params.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError("Invalid cursor")
	}
	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		return nil, storeErr("list customers", err)
	}

	cursorPag, items := pagination.NewCursorPagination(customers, params,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}
	if input.Email != nil {
		customer.Email = trimmed(input.Email)
	}
	if input.Address != nil {
		customer.Address = trimmed(input.Address)
	}
	if input.Notes != nil {
		customer.Notes = trimmed(input.Notes)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, storeErr("update customer", err)
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Issued invoices keep their reference.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return storeErr("delete customer", s.customerRepo.Delete(ctx, id))
}
