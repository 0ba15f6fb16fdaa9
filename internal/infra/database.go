package infra

import (
	"fmt"

	"paddyledger/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes, check constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Season{},
		&model.Product{},
		&model.Grade{},
		&model.Farmer{},
		&model.Manufacturer{},
		&model.SeasonProductPrice{},
		&model.PriceHistory{},
		&model.PurchaseTransaction{},
		&model.ReceiptCounter{},
		&model.SalesTransaction{},
		&model.SalesPurchaseMapping{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches applies DDL that AutoMigrate cannot express. Each
// statement is idempotent so re-running on an already-patched schema is a
// no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{
			// gen_random_uuid() lives in pgcrypto on PostgreSQL < 13
			"enable pgcrypto",
			`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		},
		{
			"single active season per mode",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_season_per_mode
			   ON harvesting_seasons (mode) WHERE status = 'active'`,
		},
		{
			"weights stay non-negative",
			`DO $$ BEGIN
			   ALTER TABLE purchase_transactions
			     ADD CONSTRAINT chk_purchase_weights
			     CHECK (gross_weight_kg >= 0 AND tare_weight_kg >= 0 AND net_weight_kg >= 0);
			 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		},
		{
			"mapping quantity positive",
			`DO $$ BEGIN
			   ALTER TABLE sales_purchase_mapping
			     ADD CONSTRAINT chk_mapping_quantity
			     CHECK (quantity_kg > 0);
			 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
