package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/config"
	"github.com/sangkips/laundry-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/handler"
	"github.com/sangkips/laundry-api/internal/presentation/http/middleware"
	"github.com/sangkips/laundry-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string         `json:"kind"`
		Context map[string]any `json:"context"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, false, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	cfg := &config.Config{
		App:         config.AppConfig{Name: "laundry-api", Env: "test"},
		Pricing:     config.PricingConfig{DefaultTaxRate: 15, Currency: "SAR"},
		Invoice:     config.InvoiceConfig{DefaultStatus: "paid"},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
		RateLimit:   config.RateLimitConfig{Requests: 1000, Duration: 1},
	}
	log := zap.NewNop()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)

	tenantRepo := infraRepo.NewTenantRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	couponRepo := infraRepo.NewCouponRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	sectionRepo := infraRepo.NewWorkSectionRepository(db)
	tx := infraRepo.NewTransactor(db)

	settings := service.NewSettingsService(tenantRepo, service.DefaultsFromConfig(cfg), log)
	catalog := service.NewCatalogService(
		infraRepo.NewDepartmentRepository(db),
		infraRepo.NewSubItemRepository(db),
		infraRepo.NewServiceRepository(db),
		infraRepo.NewSubItemServiceRepository(db),
	)
	invoices := service.NewInvoiceService(invoiceRepo, customerRepo, couponRepo, tx, settings, catalog, log)
	workflow := service.NewWorkflowService(sectionRepo, infraRepo.NewWorkflowRepository(db), invoiceRepo, employeeRepo, settings, log)

	h := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(tenantRepo, employeeRepo, sectionRepo, tx, jwtManager, log)),
		Employee:  handler.NewEmployeeHandler(service.NewEmployeeService(employeeRepo, log)),
		Customer:  handler.NewCustomerHandler(service.NewCustomerService(customerRepo)),
		Catalog:   handler.NewCatalogHandler(catalog),
		Coupon:    handler.NewCouponHandler(service.NewCouponService(couponRepo)),
		Invoice:   handler.NewInvoiceHandler(invoices, workflow),
		Workflow:  handler.NewWorkflowHandler(workflow),
		Settings:  handler.NewSettingsHandler(settings),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(infraRepo.NewAnalyticsRepository(db), invoiceRepo, customerRepo)),
		Health:    handler.NewHealthHandler(db, cfg.App.Name),
	}

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	srv := &testServer{router: Setup(h, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		TenantRepo:      tenantRepo,
		Log:             log,
		Stop:            stop,
	})}

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"shop_name":     "Clean Corner",
		"slug":          "clean-corner",
		"manager_name":  "Amal",
		"manager_phone": "0500000001",
		"pin":           "1234",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)
	srv.token = login.AccessToken
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *testServer) create(t *testing.T, path string, body any) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, path, body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

// seedCart creates a shirt with washing at 10 and ironing at 7, and a customer.
func (s *testServer) seedCart(t *testing.T) map[string]any {
	t.Helper()
	dept := s.create(t, "/api/v1/catalog/departments", map[string]any{"name": "Clothes"})
	shirt := s.create(t, "/api/v1/catalog/sub-items", map[string]any{"department_id": dept, "name": "Shirt"})
	wash := s.create(t, "/api/v1/catalog/services", map[string]any{"name": "Wash", "base_price": "10"})
	iron := s.create(t, "/api/v1/catalog/services", map[string]any{"name": "Iron", "base_price": "5"})

	rec, _ := s.do(t, http.MethodPut, "/api/v1/catalog/sub-items/"+shirt+"/services/"+wash, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = s.do(t, http.MethodPut, "/api/v1/catalog/sub-items/"+shirt+"/services/"+iron, map[string]any{"price": "7"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	customer := s.create(t, "/api/v1/customers", map[string]any{"name": "Khalid", "phone": "0555000111"})

	return map[string]any{
		"customer_id": customer,
		"line_items": []map[string]any{{
			"sub_item_id": shirt,
			"quantity":    2,
			"services":    []map[string]any{{"service_id": wash}, {"service_id": iron}},
		}},
		"payment_method": "cash",
		"amount_paid":    "100",
	}
}

func requireAmount(t *testing.T, want string, got json.RawMessage) {
	t.Helper()
	var s string
	if err := json.Unmarshal(got, &s); err != nil {
		s = string(got)
	}
	require.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(s)), "want %s, got %s", want, s)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	srv.token = ""
	rec, env = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized", env.Error.Kind)

	srv.token = "not-a-token"
	rec, _ = srv.do(t, http.MethodGet, "/api/v1/invoices", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWrongPIN(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"shop_slug": "clean-corner",
		"phone":     "0500000001",
		"pin":       "9999",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"shop_slug": "clean-corner",
		"phone":     "0500000001",
		"pin":       "1234",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "access_token")
}

func TestCheckoutQuoteAndIssue(t *testing.T) {
	srv := newTestServer(t)
	cart := srv.seedCart(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/carts/quote", map[string]any{"line_items": cart["line_items"]}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var quote struct {
		Breakdown map[string]json.RawMessage `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	requireAmount(t, "34", quote.Breakdown["subtotal"])
	requireAmount(t, "39.1", quote.Breakdown["total"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/invoices", cart, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var invoice map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	requireAmount(t, "39.1", invoice["total"])
	require.NotEmpty(t, string(invoice["invoice_number"]))

	var id string
	require.NoError(t, json.Unmarshal(invoice["id"], &id))

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices/"+id+"/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "breakdown")

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices?per_page=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), id)
}

func TestCheckoutValidationKinds(t *testing.T) {
	srv := newTestServer(t)
	cart := srv.seedCart(t)

	delete(cart, "customer_id")
	rec, env := srv.do(t, http.MethodPost, "/api/v1/invoices", cart, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "MissingCustomer", env.Error.Kind)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_id": uuid.NewString()}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "EmptyCart", env.Error.Kind)
}

func TestCheckoutReadsLineItems(t *testing.T) {
	srv := newTestServer(t)
	cart := srv.seedCart(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{
		"customer_id":    cart["customer_id"],
		"line_items":     cart["line_items"],
		"payment_method": "cash",
		"amount_paid":    "50",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invoice map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	requireAmount(t, "34", invoice["subtotal"])
	requireAmount(t, "39.1", invoice["total"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{
		"customer_id": cart["customer_id"],
		"lines":       cart["line_items"],
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "EmptyCart", env.Error.Kind)
}

func TestIssueIdempotencyKey(t *testing.T) {
	srv := newTestServer(t)
	cart := srv.seedCart(t)
	key := map[string]string{middleware.IdempotencyKeyHeader: "till-1-0001"}

	first, env := srv.do(t, http.MethodPost, "/api/v1/invoices", cart, key)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var issued struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &issued))

	again, env := srv.do(t, http.MethodPost, "/api/v1/invoices", cart, key)
	require.Equal(t, http.StatusCreated, again.Code)
	require.Equal(t, "true", again.Header().Get(middleware.ReplayedHeader))
	var replayed struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &replayed))
	require.Equal(t, issued.ID, replayed.ID)

	cart["amount_paid"] = "200"
	rec, env := srv.do(t, http.MethodPost, "/api/v1/invoices", cart, key)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Conflict", env.Error.Kind)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices?per_page=10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 1, page.Pagination.Total)
}

func TestInvoiceLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	cart := srv.seedCart(t)
	cart["status"] = "pending"
	cart["amount_paid"] = "0"
	id := srv.create(t, "/api/v1/invoices", cart)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/invoices/"+id+"/pay", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, string(env.Data), `"status"`)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/invoices/"+id+"/return", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = srv.do(t, http.MethodPost, "/api/v1/invoices/"+id+"/return", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "AlreadyReturned", env.Error.Kind)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BadRequest", env.Error.Kind)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", env.Error.Kind)
}

func TestWorkflowEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := srv.create(t, "/api/v1/invoices", srv.seedCart(t))

	rec, env := srv.do(t, http.MethodGet, "/api/v1/work-sections", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"receive"`)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/work-sections/wash/pending", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), id)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/work-sections/wash/invoices/"+id+"/complete", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "NotStarted", env.Error.Kind)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/work-sections/wash/invoices/"+id+"/start", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = srv.do(t, http.MethodPost, "/api/v1/work-sections/wash/invoices/"+id+"/start", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "AlreadyStarted", env.Error.Kind)

	rec, _ = srv.do(t, http.MethodPatch, "/api/v1/work-sections/wash/invoices/"+id+"/notes", map[string]any{"notes": "stain on collar"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/work-sections/wash/invoices/"+id+"/complete", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = srv.do(t, http.MethodGet, "/api/v1/invoices/"+id+"/workflow", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "stain on collar")

	rec, env = srv.do(t, http.MethodGet, "/api/v1/work-sections/dry/pending", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", env.Error.Kind)
}

func TestManagerOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/api/v1/employees", map[string]any{
		"name":  "Sara",
		"phone": "0500000002",
		"role":  "cashier",
		"pin":   "4321",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	manager := srv.token
	srv.token = ""
	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"shop_slug": "clean-corner",
		"phone":     "0500000002",
		"pin":       "4321",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	srv.token = login.AccessToken

	rec, env = srv.do(t, http.MethodPut, "/api/v1/settings", map[string]any{"tax_rate": "5"}, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Forbidden", env.Error.Kind)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/settings", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	srv.token = manager
	rec, env = srv.do(t, http.MethodPut, "/api/v1/settings", map[string]any{"tax_rate": "5"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, string(env.Data), "clean-corner")
}

func TestDashboardDateValidation(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/api/v1/dashboard?from=2026-03-01&to=2026-03-31", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := srv.do(t, http.MethodGet, "/api/v1/dashboard?from=yesterday", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "from", firstContextKey(env))
}

func firstContextKey(env envelope) string {
	if env.Error == nil {
		return ""
	}
	for k := range env.Error.Context {
		return k
	}
	return ""
}
