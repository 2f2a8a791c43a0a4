package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-api/internal/application/service"
	"github.com/sangkips/laundry-api/internal/config"
	domainRepo "github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/sangkips/laundry-api/internal/infrastructure/database"
	"github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/internal/presentation/http/handler"
	"github.com/sangkips/laundry-api/internal/presentation/http/routes"
	"github.com/sangkips/laundry-api/pkg/logger"
	"github.com/sangkips/laundry-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl = zl.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zl); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, zl); err != nil {
		zl.Warn("failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	subItemRepo := repository.NewSubItemRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	offerRepo := repository.NewSubItemServiceRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sectionRepo := repository.NewWorkSectionRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	tx := repository.NewTransactor(db)

	// Initialize services
	settingsService := service.NewSettingsService(tenantRepo, service.DefaultsFromConfig(cfg), zl)
	authService := service.NewAuthService(tenantRepo, employeeRepo, sectionRepo, tx, jwtManager, zl)
	employeeService := service.NewEmployeeService(employeeRepo, zl)
	customerService := service.NewCustomerService(customerRepo)
	catalogService := service.NewCatalogService(departmentRepo, subItemRepo, serviceRepo, offerRepo)
	couponService := service.NewCouponService(couponRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, couponRepo, tx, settingsService, catalogService, zl)
	workflowService := service.NewWorkflowService(sectionRepo, workflowRepo, invoiceRepo, employeeRepo, settingsService, zl)
	dashboardService := service.NewDashboardService(analyticsRepo, invoiceRepo, customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Employee:  handler.NewEmployeeHandler(employeeService),
		Customer:  handler.NewCustomerHandler(customerService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Coupon:    handler.NewCouponHandler(couponService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, workflowService),
		Workflow:  handler.NewWorkflowHandler(workflowService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Health:    handler.NewHealthHandler(db, cfg.App.Name),
	}

	stop := make(chan struct{})

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		TenantRepo:      tenantRepo,
		Log:             zl,
		Stop:            stop,
	})

	go purgeIdempotencyKeys(idempotencyRepo, time.Hour, stop, zl)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zl.Info("server exited")
}

// purgeIdempotencyKeys drops expired idempotency keys every interval until stop is closed
func purgeIdempotencyKeys(repo domainRepo.IdempotencyRepository, interval time.Duration, stop <-chan struct{}, zl *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := repo.DeleteExpired(ctx)
			cancel()
			if err != nil {
				zl.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				zl.Info("purged idempotency keys", zap.Int64("count", n))
			}
		case <-stop:
			return
		}
	}
}
