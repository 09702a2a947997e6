package db

import (
	"errors"
	"fmt"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.AdminUser{},
		&model.Category{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.ActivityLog{},
		&model.ContactMessage{},
	}
}

// Migrate creates or updates the schema and installs the sale total trigger.
func Migrate(database *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := installSaleTotalTrigger(database); err != nil {
		logger.Error("Failed to install sale total trigger", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
		"dialect":      database.Dialector.Name(),
	})
	return nil
}

// Seed creates the first admin account when one is configured and missing.
func Seed(database *gorm.DB, cfg *config.AdminSeedConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Info("No admin seed configured, skipping")
		return nil
	}

	var existing model.AdminUser
	err := database.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists, skipping seed", map[string]interface{}{
			"email": cfg.Email,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.AdminUser{Email: cfg.Email, Name: cfg.Name, PasswordHash: hash}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"admin_id": admin.ID,
		"email":    admin.Email,
	})
	return nil
}

// The trigger keeps sales.total_amount equal to the sum of its item subtotals
// even when rows are written outside the service layer.
func installSaleTotalTrigger(database *gorm.DB) error {
	var statements []string
	switch database.Dialector.Name() {
	case "postgres":
		statements = postgresSaleTotalTrigger
	case "sqlite":
		statements = sqliteSaleTotalTrigger
	default:
		logger.Warn("No sale total trigger for dialect", map[string]interface{}{
			"dialect": database.Dialector.Name(),
		})
		return nil
	}

	for _, stmt := range statements {
		if err := database.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

var postgresSaleTotalTrigger = []string{
	`CREATE OR REPLACE FUNCTION refresh_sale_total() RETURNS TRIGGER AS $$
BEGIN
	IF TG_OP IN ('UPDATE', 'DELETE') THEN
		UPDATE sales SET total_amount = (
			SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = OLD.sale_id
		) WHERE id = OLD.sale_id;
	END IF;
	IF TG_OP IN ('INSERT', 'UPDATE') THEN
		UPDATE sales SET total_amount = (
			SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = NEW.sale_id
		) WHERE id = NEW.sale_id;
	END IF;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS sales_items_refresh_total ON sales_items`,
	`CREATE TRIGGER sales_items_refresh_total
	AFTER INSERT OR UPDATE OR DELETE ON sales_items
	FOR EACH ROW EXECUTE FUNCTION refresh_sale_total()`,
}

var sqliteSaleTotalTrigger = []string{
	`CREATE TRIGGER IF NOT EXISTS sales_items_total_after_insert AFTER INSERT ON sales_items
BEGIN
	UPDATE sales SET total_amount = (
		SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = NEW.sale_id
	) WHERE id = NEW.sale_id;
END`,
	`CREATE TRIGGER IF NOT EXISTS sales_items_total_after_update AFTER UPDATE ON sales_items
BEGIN
	UPDATE sales SET total_amount = (
		SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = OLD.sale_id
	) WHERE id = OLD.sale_id;
	UPDATE sales SET total_amount = (
		SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = NEW.sale_id
	) WHERE id = NEW.sale_id;
END`,
	`CREATE TRIGGER IF NOT EXISTS sales_items_total_after_delete AFTER DELETE ON sales_items
BEGIN
	UPDATE sales SET total_amount = (
		SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE sale_id = OLD.sale_id
	) WHERE id = OLD.sale_id;
END`,
}
