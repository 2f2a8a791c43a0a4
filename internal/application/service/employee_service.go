package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"github.com/sangkips/laundry-api/pkg/utils"
	"go.uber.org/zap"
)

// EmployeeService handles shop staff
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	log          *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repository.EmployeeRepository, log *zap.Logger) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, log: log}
}

func validRole(role string) bool {
	switch role {
	case entity.EmployeeRoleManager, entity.EmployeeRoleCashier, entity.EmployeeRoleOperator:
		return true
	}
	return false
}

// CreateEmployeeInput represents the create employee input
type CreateEmployeeInput struct {
	Name  string
	Phone string
	Role  string
	PIN   string
}

// CreateEmployee adds an employee to the current shop
func (s *EmployeeService) CreateEmployee(ctx context.Context, input *CreateEmployeeInput) (*entity.Employee, error) {
	tenantID, err := infraRepo.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.EmployeeRoleOperator
	}
	if !validRole(role) {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "role", Message: "must be manager, cashier or operator"}})
	}
	if err := validatePIN(input.PIN); err != nil {
		return nil, err
	}

	hash, err := utils.HashPIN(input.PIN)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(input.Phone)
	employee := &entity.Employee{
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Phone:    &phone,
		Role:     role,
		PinHash:  hash,
		Active:   true,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("An employee with this phone already exists")
		}
		return nil, storeErr("create employee", err)
	}

	logger.FromContextOr(ctx, s.log).Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("role", role),
	)
	return employee, nil
}

// GetEmployee retrieves an employee of the current shop
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("load employee", err)
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

// ListEmployees lists the staff of the current shop
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Employee], error) {
	employees, total, err := s.employeeRepo.List(ctx, params, search)
	if err != nil {
		return nil, storeErr("list employees", err)
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(employees, pag), nil
}

// UpdateEmployeeInput represents the update employee input
type UpdateEmployeeInput struct {
	ID     uuid.UUID
	Name   *string
	Phone  *string
	Role   *string
	PIN    *string
	Active *bool
}

// UpdateEmployee updates an employee
func (s *EmployeeService) UpdateEmployee(ctx context.Context, input *UpdateEmployeeInput) (*entity.Employee, error) {
	employee, err := s.GetEmployee(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		employee.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		employee.Phone = &phone
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "role", Message: "must be manager, cashier or operator"}})
		}
		employee.Role = *input.Role
	}
	if input.PIN != nil {
		if err := validatePIN(*input.PIN); err != nil {
			return nil, err
		}
		hash, err := utils.HashPIN(*input.PIN)
		if err != nil {
			return nil, err
		}
		employee.PinHash = hash
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("An employee with this phone already exists")
		}
		return nil, storeErr("update employee", err)
	}
	return employee, nil
}
