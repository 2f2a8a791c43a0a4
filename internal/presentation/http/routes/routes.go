package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/config"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/handler"
	"github.com/sangkips/laundry-api/internal/presentation/http/middleware"
	"github.com/sangkips/laundry-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Employee  *handler.EmployeeHandler
	Customer  *handler.CustomerHandler
	Catalog   *handler.CatalogHandler
	Coupon    *handler.CouponHandler
	Invoice   *handler.InvoiceHandler
	Workflow  *handler.WorkflowHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	TenantRepo      domainRepo.TenantRepository
	Log             *zap.Logger
	// Stop ends the background cleanup of the rate limiters
	Stop <-chan struct{}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	limiterCfg := rateLimiterConfig(&deps.Cfg.RateLimit)

	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		public := v1.Group("")
		public.Use(middleware.NewRateLimiter(limiterCfg, deps.Stop).Middleware())
		registerAuthRoutes(public, h)

		// Protected routes, limited per shop
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		protected.Use(middleware.NewRateLimiter(limiterCfg, deps.Stop).Middleware())
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
		}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	out := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		out.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		out.BurstSize = cfg.Requests
	}
	out.CleanupInterval = 5 * time.Minute
	out.EntryTTL = 10 * time.Minute
	return out
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	managerOnly := middleware.RequireRole(entity.EmployeeRoleManager)

	protected.GET("/auth/me", h.Auth.Me)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", managerOnly, h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", managerOnly, h.Dashboard.GetStats)
	protected.GET("/dashboard/revenue", managerOnly, h.Dashboard.Revenue)

	registerEmployeeRoutes(protected, h, managerOnly)
	registerCustomerRoutes(protected, h, managerOnly)
	registerCatalogRoutes(protected, h, managerOnly)
	registerCouponRoutes(protected, h, managerOnly)
	registerInvoiceRoutes(protected, h, managerOnly)
	registerWorkflowRoutes(protected, h)
}

func registerEmployeeRoutes(protected *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	employees := protected.Group("/employees")
	employees.Use(managerOnly)
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
		employees.PUT("/:id", h.Employee.Update)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/lookup", h.Customer.Lookup)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", managerOnly, h.Customer.Delete)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("/departments", h.Catalog.ListDepartments)
		catalog.POST("/departments", managerOnly, h.Catalog.CreateDepartment)
		catalog.PUT("/departments/:id", managerOnly, h.Catalog.UpdateDepartment)
		catalog.DELETE("/departments/:id", managerOnly, h.Catalog.DeleteDepartment)

		catalog.GET("/sub-items", h.Catalog.ListSubItems)
		catalog.POST("/sub-items", managerOnly, h.Catalog.CreateSubItem)
		catalog.GET("/sub-items/:id", h.Catalog.GetSubItem)
		catalog.PUT("/sub-items/:id", managerOnly, h.Catalog.UpdateSubItem)
		catalog.DELETE("/sub-items/:id", managerOnly, h.Catalog.DeleteSubItem)
		catalog.GET("/sub-items/:id/services", h.Catalog.SubItemServices)
		catalog.PUT("/sub-items/:id/services/:service_id", managerOnly, h.Catalog.SetSubItemPrice)
		catalog.DELETE("/sub-items/:id/services/:service_id", managerOnly, h.Catalog.RemoveSubItemService)

		catalog.GET("/services", h.Catalog.ListServices)
		catalog.POST("/services", managerOnly, h.Catalog.CreateService)
		catalog.PUT("/services/:id", managerOnly, h.Catalog.UpdateService)
		catalog.DELETE("/services/:id", managerOnly, h.Catalog.DeleteService)
	}
}

func registerCouponRoutes(protected *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	coupons := protected.Group("/coupons")
	{
		coupons.POST("/validate", h.Coupon.Validate)
		coupons.GET("", managerOnly, h.Coupon.List)
		coupons.POST("", managerOnly, h.Coupon.Create)
		coupons.GET("/:id", managerOnly, h.Coupon.Get)
		coupons.PUT("/:id", managerOnly, h.Coupon.Update)
		coupons.DELETE("/:id", managerOnly, h.Coupon.Delete)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	protected.POST("/carts/quote", h.Invoice.Quote)

	invoices := protected.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Issue)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/number/:number", h.Invoice.GetByNumber)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/summary", h.Invoice.Summary)
		invoices.GET("/:id/workflow", h.Invoice.Progress)
		invoices.POST("/:id/return", h.Invoice.Return)
		invoices.POST("/:id/pay", h.Invoice.MarkPaid)
		invoices.POST("/:id/cancel", managerOnly, h.Invoice.Cancel)
	}
}

func registerWorkflowRoutes(protected *gin.RouterGroup, h *Handlers) {
	sections := protected.Group("/work-sections")
	{
		sections.GET("", h.Workflow.ListSections)
		sections.GET("/:section/pending", h.Workflow.Pending)
		sections.POST("/:section/invoices/:id/start", h.Workflow.Start)
		sections.POST("/:section/invoices/:id/complete", h.Workflow.Complete)
		sections.PATCH("/:section/invoices/:id/notes", h.Workflow.Notes)
	}
}
