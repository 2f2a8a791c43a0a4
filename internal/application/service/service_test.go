package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	db     *gorm.DB
	ctx    context.Context
	tenant *entity.Tenant

	settings  *SettingsService
	auth      *AuthService
	employees *EmployeeService
	customers *CustomerService
	catalog   *CatalogService
	coupons   *CouponService
	invoices  *InvoiceService
	workflow  *WorkflowService
	dashboard *DashboardService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, false, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log := zap.NewNop()

	tenantRepo := infraRepo.NewTenantRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	couponRepo := infraRepo.NewCouponRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	sectionRepo := infraRepo.NewWorkSectionRepository(db)
	workflowRepo := infraRepo.NewWorkflowRepository(db)
	tx := infraRepo.NewTransactor(db)

	defaults := Defaults{
		TaxRate:       decimal.NewFromInt(15),
		Currency:      "SAR",
		InvoiceStatus: enum.InvoiceStatusPaid,
	}

	env := &testEnv{db: db}
	env.settings = NewSettingsService(tenantRepo, defaults, log)
	env.auth = NewAuthService(tenantRepo, employeeRepo, sectionRepo, tx, utils.NewJWTManager("test-secret", time.Hour), log)
	env.employees = NewEmployeeService(employeeRepo, log)
	env.customers = NewCustomerService(customerRepo)
	env.catalog = NewCatalogService(
		infraRepo.NewDepartmentRepository(db),
		infraRepo.NewSubItemRepository(db),
		infraRepo.NewServiceRepository(db),
		infraRepo.NewSubItemServiceRepository(db),
	)
	env.coupons = NewCouponService(couponRepo)
	env.invoices = NewInvoiceService(invoiceRepo, customerRepo, couponRepo, tx, env.settings, env.catalog, log)
	env.workflow = NewWorkflowService(sectionRepo, workflowRepo, invoiceRepo, employeeRepo, env.settings, log)
	env.dashboard = NewDashboardService(infraRepo.NewAnalyticsRepository(db), invoiceRepo, customerRepo)

	clock := func() time.Time { return testNow }
	env.coupons.now = clock
	env.invoices.now = clock
	env.workflow.now = clock
	env.dashboard.now = clock

	env.tenant = env.createShop(t, "Clean Corner")
	env.ctx = infraRepo.WithTenant(context.Background(), env.tenant.ID)
	return env
}

func (e *testEnv) createShop(t *testing.T, name string) *entity.Tenant {
	t.Helper()
	tenant := &entity.Tenant{Name: name, Slug: utils.Slugify(name), Settings: entity.TenantSettings{Currency: "SAR"}}
	require.NoError(t, e.db.Create(tenant).Error)
	return tenant
}

// catalogFixture is a small price list: a shirt with dry cleaning at 25, washing at 10
// and ironing at base 5 with a shirt price of 7.
type catalogFixture struct {
	shirt    *entity.SubItem
	dryClean *entity.Service
	wash     *entity.Service
	iron     *entity.Service
}

func (e *testEnv) seedCatalog(t *testing.T) catalogFixture {
	t.Helper()
	dept, err := e.catalog.CreateDepartment(e.ctx, "Clothes", 1)
	require.NoError(t, err)
	shirt, err := e.catalog.CreateSubItem(e.ctx, dept.ID, "Shirt")
	require.NoError(t, err)
	dryClean, err := e.catalog.CreateService(e.ctx, "Dry clean", decimal.NewFromInt(25))
	require.NoError(t, err)
	wash, err := e.catalog.CreateService(e.ctx, "Wash", decimal.NewFromInt(10))
	require.NoError(t, err)
	iron, err := e.catalog.CreateService(e.ctx, "Iron", decimal.NewFromInt(5))
	require.NoError(t, err)

	shirtIron := decimal.NewFromInt(7)
	_, err = e.catalog.SetSubItemPrice(e.ctx, shirt.ID, iron.ID, &shirtIron)
	require.NoError(t, err)
	_, err = e.catalog.SetSubItemPrice(e.ctx, shirt.ID, wash.ID, nil)
	require.NoError(t, err)
	_, err = e.catalog.SetSubItemPrice(e.ctx, shirt.ID, dryClean.ID, nil)
	require.NoError(t, err)

	return catalogFixture{shirt: shirt, dryClean: dryClean, wash: wash, iron: iron}
}

func (e *testEnv) createCustomer(t *testing.T, name, phone string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(e.ctx, &CreateCustomerInput{Name: name, Phone: &phone})
	require.NoError(t, err)
	return c
}

func line(subItemID uuid.UUID, quantity int, services ...uuid.UUID) LineInput {
	l := LineInput{SubItemID: subItemID, Quantity: quantity}
	for _, id := range services {
		l.Services = append(l.Services, LineServiceInput{ServiceID: id})
	}
	return l
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Equal(t, dec(want).StringFixed(2), got.StringFixed(2))
}
