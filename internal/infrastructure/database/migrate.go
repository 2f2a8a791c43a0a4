package database

import (
	"fmt"

	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Shops and staff
		&entity.Tenant{},
		&entity.Employee{},

		// CRM entities
		&entity.Customer{},

		// Catalog entities
		&entity.Department{},
		&entity.SubItem{},
		&entity.Service{},
		&entity.SubItemService{},
		&entity.Coupon{},

		// Transaction entities
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceSequence{},

		// Workflow entities
		&entity.WorkSection{},
		&entity.WorkflowRecord{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the shop and manager named by SEED_SHOP_NAME, SEED_MANAGER_PHONE
// and SEED_MANAGER_PIN when they do not exist yet.
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	shopName := viper.GetString("SEED_SHOP_NAME")
	phone := viper.GetString("SEED_MANAGER_PHONE")
	pin := viper.GetString("SEED_MANAGER_PIN")
	if shopName == "" || phone == "" || pin == "" {
		return nil
	}

	log.Info("seeding default data", zap.String("shop", shopName))

	slug := utils.Slugify(shopName)
	var shop entity.Tenant
	if err := db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		shop = entity.Tenant{Name: shopName, Slug: slug, Settings: entity.DefaultTenantSettings()}
		if err := db.Create(&shop).Error; err != nil {
			return fmt.Errorf("failed to create shop: %w", err)
		}
	}

	sections := entity.DefaultWorkSections(shop.ID)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sections).Error; err != nil {
		return fmt.Errorf("failed to seed work sections: %w", err)
	}

	var manager entity.Employee
	if err := db.Where("tenant_id = ? AND phone = ?", shop.ID, phone).First(&manager).Error; err != nil {
		hash, err := utils.HashPIN(pin)
		if err != nil {
			return fmt.Errorf("failed to hash manager PIN: %w", err)
		}
		name := viper.GetString("SEED_MANAGER_NAME")
		if name == "" {
			name = "Manager"
		}
		manager = entity.Employee{
			TenantID: shop.ID,
			Name:     name,
			Phone:    &phone,
			Role:     entity.EmployeeRoleManager,
			PinHash:  hash,
			Active:   true,
		}
		if err := db.Create(&manager).Error; err != nil {
			return fmt.Errorf("failed to create manager: %w", err)
		}
		log.Info("manager created", zap.String("shop", slug), zap.String("phone", phone))
	}

	log.Info("default data seeding completed")
	return nil
}
