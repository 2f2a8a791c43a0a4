package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles shop registration and employee sign-in
type AuthService struct {
	tenantRepo   repository.TenantRepository
	employeeRepo repository.EmployeeRepository
	sectionRepo  repository.WorkSectionRepository
	tx           repository.Transactor
	jwtManager   *utils.JWTManager
	log          *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	tenantRepo repository.TenantRepository,
	employeeRepo repository.EmployeeRepository,
	sectionRepo repository.WorkSectionRepository,
	tx repository.Transactor,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo:   tenantRepo,
		employeeRepo: employeeRepo,
		sectionRepo:  sectionRepo,
		tx:           tx,
		jwtManager:   jwtManager,
		log:          log,
	}
}

// LoginOutput represents the login output
type LoginOutput struct {
	Tenant      *entity.Tenant   `json:"shop"`
	Employee    *entity.Employee `json:"employee"`
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

// RegisterShopInput represents the input for opening a new shop
type RegisterShopInput struct {
	ShopName     string
	Slug         string
	ManagerName  string
	ManagerPhone string
	PIN          string
	Settings     *entity.TenantSettings
}

// RegisterShop creates a shop with its work sections and first manager, then signs the manager in
func (s *AuthService) RegisterShop(ctx context.Context, input *RegisterShopInput) (*LoginOutput, error) {
	if err := validatePIN(input.PIN); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(input.ManagerPhone)
	if strings.TrimSpace(input.ShopName) == "" || phone == "" {
		return nil, apperror.NewBadRequestError("Shop name and manager phone are required")
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.ShopName)
	}
	if slug == "" {
		return nil, apperror.NewBadRequestError("Shop slug is invalid")
	}

	exists, err := s.tenantRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, storeErr("check shop slug", err)
	}
	if exists {
		return nil, apperror.NewConflictError("Shop slug already exists")
	}

	hash, err := utils.HashPIN(input.PIN)
	if err != nil {
		return nil, err
	}

	settings := entity.DefaultTenantSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	tenant := &entity.Tenant{
		Name:     strings.TrimSpace(input.ShopName),
		Slug:     slug,
		Settings: settings,
	}
	managerName := strings.TrimSpace(input.ManagerName)
	if managerName == "" {
		managerName = "Manager"
	}
	manager := &entity.Employee{
		Name:    managerName,
		Phone:   &phone,
		Role:    entity.EmployeeRoleManager,
		PinHash: hash,
		Active:  true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}
		manager.TenantID = tenant.ID
		if err := s.sectionRepo.EnsureDefaults(ctx, tenant.ID, entity.DefaultWorkSections(tenant.ID)); err != nil {
			return err
		}
		return s.employeeRepo.Create(ctx, manager)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.NewConflictError("Shop slug already exists")
	}
	if err != nil {
		return nil, storeErr("register shop", err)
	}

	logger.FromContextOr(ctx, s.log).Info("shop registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", slug),
	)
	return s.issue(tenant, manager)
}

// LoginInput represents the login input
type LoginInput struct {
	ShopSlug string
	Phone    string
	PIN      string
}

// Login authenticates an employee of a shop by phone and PIN
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, strings.TrimSpace(input.ShopSlug))
	if err != nil {
		return nil, storeErr("load shop", err)
	}
	if tenant == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	employee, err := s.employeeRepo.GetByPhone(ctx, tenant.ID, strings.TrimSpace(input.Phone))
	if err != nil {
		return nil, storeErr("load employee", err)
	}
	if employee == nil || !employee.Active {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPIN(employee.PinHash, input.PIN) {
		logger.FromContextOr(ctx, s.log).Warn("failed PIN attempt",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("employee_id", employee.ID.String()),
		)
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(tenant, employee)
}

// CurrentEmployee returns the signed-in employee with its shop
func (s *AuthService) CurrentEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.Employee, error) {
	if _, err := infraRepo.RequireTenantID(ctx); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, storeErr("load employee", err)
	}
	if employee == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return employee, nil
}

func (s *AuthService) issue(tenant *entity.Tenant, employee *entity.Employee) (*LoginOutput, error) {
	token, expiresAt, err := s.jwtManager.GenerateAccessToken(employee.ID, tenant.ID, employee.Role)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Tenant:      tenant,
		Employee:    employee,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// validatePIN accepts 4 to 8 digits
func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "pin", Message: "must be 4 to 8 digits"}})
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return apperror.NewValidationError([]apperror.FieldError{{Field: "pin", Message: "must contain digits only"}})
		}
	}
	return nil
}
