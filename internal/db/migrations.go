package db

import (
	"fmt"

	"gorm.io/gorm"

	"backoffice-service/internal/model"
)

var updatedAtTables = []string{
	"users",
	"plans",
	"orders",
	"route_groups",
	"routes",
	"dispatch_routes",
}

// postgresStatements run after AutoMigrate on postgres only.
var postgresStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_single_visit') THEN
			ALTER TABLE orders ADD CONSTRAINT chk_orders_single_visit
				CHECK (delivery_visit_id IS NULL OR pickup_visit_id IS NULL);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_status') THEN
			ALTER TABLE orders ADD CONSTRAINT chk_orders_status
				CHECK (status IN ('PENDING', 'CONFIRMED', 'IN_TRANSIT', 'DELIVERED', 'PARTIALLY_DELIVERED', 'CANCELLED'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_line_items_status') THEN
			ALTER TABLE line_items ADD CONSTRAINT chk_line_items_status
				CHECK (status IN ('PENDING', 'DELIVERED', 'PARTIALLY_DELIVERED', 'REJECTED'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_users_role') THEN
			ALTER TABLE users ADD CONSTRAINT chk_users_role
				CHECK (role IN ('USER', 'ADMIN', 'MANAGER'));
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_route_stops_route_sequence ON route_stops (route_id, sequence);`,
	`CREATE INDEX IF NOT EXISTS idx_visits_plan_sequence ON visits (plan_id, sequence);`,
	`CREATE INDEX IF NOT EXISTS idx_dispatch_orders_route_sequence ON dispatch_orders (route_id, sequence);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
}

func updatedAtTrigger(table string) string {
	return fmt.Sprintf(`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_%[1]s_updated_at') THEN
			CREATE TRIGGER trg_%[1]s_updated_at
				BEFORE UPDATE ON %[1]s
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`, table)
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func runMigrations(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}

	statements := append([]string{}, postgresStatements...)
	for _, table := range updatedAtTables {
		statements = append(statements, updatedAtTrigger(table))
	}
	for i, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
