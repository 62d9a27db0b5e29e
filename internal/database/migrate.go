package database

import (
	"fmt"

	"fooddelivery/internal/model"
	"fooddelivery/pkg/log"
)

// AutoMigrate run auto migration for all models
func AutoMigrate() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	err := db.AutoMigrate(
		&model.Store{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	log.Info("Database migration completed")
	return nil
}

// CreateIndexes create composite indexes not expressible via tags
func CreateIndexes() error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	indexes := []string{
		"CREATE INDEX idx_products_store_status ON products(store_id, status)",
		"CREATE INDEX idx_orders_customer_status ON orders(customer_id, status)",
		"CREATE INDEX idx_stock_logs_product_created ON stock_logs(product_id, created_at)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			// index may already exist
			log.Warnf("Create index skipped: %v", err)
		}
	}

	return nil
}
