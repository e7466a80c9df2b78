// Package warehouse owns the dimensional schema for the manufacturing
// analytics warehouse: DDL, reference-data seeding, dimension key lookups,
// and the data-quality check catalog.
package warehouse

import (
	"context"
	"fmt"

	"github.com/mfgstack/mfgetl/internal/db"
)

// SchemaVersion identifies the current DDL revision, recorded in
// warehouse_metadata at init time.
const SchemaVersion = "1"

// Schema SQL for the star schema: date/machine/product/supplier dimensions
// and production/inventory/financial facts. Every statement is idempotent
// so init can be rerun safely.
const createSchemaSQL = `
-- Date dimension: one row per calendar day
CREATE TABLE IF NOT EXISTS dim_date (
    date_id      SERIAL PRIMARY KEY,
    full_date    DATE NOT NULL UNIQUE,
    day          INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
    month        INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    quarter      INTEGER NOT NULL CHECK (quarter BETWEEN 1 AND 4),
    year         INTEGER NOT NULL CHECK (year BETWEEN 1900 AND 2200),
    day_of_week  INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    day_name     VARCHAR(9) NOT NULL,
    is_weekend   BOOLEAN NOT NULL,
    fiscal_year  INTEGER NOT NULL
);

-- Machine dimension
CREATE TABLE IF NOT EXISTS dim_machine (
    machine_id                VARCHAR(10) PRIMARY KEY,
    machine_name              VARCHAR(100) NOT NULL,
    machine_type              VARCHAR(50) NOT NULL,
    location                  VARCHAR(100) NOT NULL,
    installation_date         DATE NOT NULL,
    maintenance_interval_days INTEGER NOT NULL CHECK (maintenance_interval_days > 0),
    status                    VARCHAR(20) NOT NULL DEFAULT 'ACTIVE'
);

-- Product dimension
CREATE TABLE IF NOT EXISTS dim_product (
    product_id      VARCHAR(10) PRIMARY KEY,
    product_name    VARCHAR(100) NOT NULL,
    category        VARCHAR(50) NOT NULL,
    unit_price      NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0),
    cost_price      NUMERIC(10,2) NOT NULL CHECK (cost_price >= 0),
    profit_margin   NUMERIC(6,2) NOT NULL,
    weight_kg       NUMERIC(8,3) NOT NULL CHECK (weight_kg >= 0),
    shelf_life_days INTEGER
);

-- Supplier dimension (placeholder, no fact references it yet)
CREATE TABLE IF NOT EXISTS dim_supplier (
    supplier_id    VARCHAR(10) PRIMARY KEY,
    supplier_name  VARCHAR(100) NOT NULL,
    contact_name   VARCHAR(100),
    country        VARCHAR(50),
    rating         INTEGER CHECK (rating BETWEEN 1 AND 5),
    lead_time_days INTEGER CHECK (lead_time_days >= 0)
);

-- Production fact: one row per (date, machine, shift, product) event
CREATE TABLE IF NOT EXISTS fact_production (
    production_id           BIGSERIAL PRIMARY KEY,
    date_id                 INTEGER NOT NULL REFERENCES dim_date(date_id),
    machine_id              VARCHAR(10) NOT NULL REFERENCES dim_machine(machine_id),
    product_id              VARCHAR(10) NOT NULL REFERENCES dim_product(product_id),
    shift_number            INTEGER NOT NULL CHECK (shift_number IN (1, 2, 3)),
    operator_id             VARCHAR(10) NOT NULL,
    quantity_produced       INTEGER NOT NULL CHECK (quantity_produced >= 0),
    defects                 INTEGER NOT NULL CHECK (defects >= 0),
    rework_count            INTEGER NOT NULL CHECK (rework_count >= 0),
    downtime_minutes        INTEGER NOT NULL CHECK (downtime_minutes >= 0),
    setup_time_minutes      INTEGER NOT NULL CHECK (setup_time_minutes >= 0),
    quality_score           NUMERIC(5,2) NOT NULL CHECK (quality_score BETWEEN 0 AND 100),
    inspection_passed       BOOLEAN NOT NULL,
    energy_consumption_kwh  NUMERIC(10,2) NOT NULL CHECK (energy_consumption_kwh >= 0),
    raw_material_used_kg    NUMERIC(10,2) NOT NULL CHECK (raw_material_used_kg >= 0),
    scrap_weight_kg         NUMERIC(10,2) NOT NULL CHECK (scrap_weight_kg >= 0),
    oee_percentage          NUMERIC(5,2) NOT NULL CHECK (oee_percentage BETWEEN 0 AND 100),
    availability_percentage NUMERIC(5,2) NOT NULL CHECK (availability_percentage BETWEEN 0 AND 100),
    performance_percentage  NUMERIC(5,2) NOT NULL CHECK (performance_percentage BETWEEN 0 AND 100),
    quality_percentage      NUMERIC(5,2) NOT NULL CHECK (quality_percentage BETWEEN 0 AND 100),
    start_time              TIMESTAMP NOT NULL,
    end_time                TIMESTAMP NOT NULL,
    created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (defects <= quantity_produced),
    CHECK (end_time > start_time)
);

-- Inventory fact (placeholder, no write path yet)
CREATE TABLE IF NOT EXISTS fact_inventory (
    inventory_id   BIGSERIAL PRIMARY KEY,
    date_id        INTEGER NOT NULL REFERENCES dim_date(date_id),
    product_id     VARCHAR(10) NOT NULL REFERENCES dim_product(product_id),
    opening_stock  INTEGER NOT NULL CHECK (opening_stock >= 0),
    closing_stock  INTEGER NOT NULL CHECK (closing_stock >= 0),
    units_received INTEGER NOT NULL CHECK (units_received >= 0),
    units_shipped  INTEGER NOT NULL CHECK (units_shipped >= 0),
    stock_value    NUMERIC(12,2) NOT NULL CHECK (stock_value >= 0)
);

-- Financial fact (placeholder, no write path yet)
CREATE TABLE IF NOT EXISTS fact_financial (
    finance_id    BIGSERIAL PRIMARY KEY,
    date_id       INTEGER NOT NULL REFERENCES dim_date(date_id),
    product_id    VARCHAR(10) NOT NULL REFERENCES dim_product(product_id),
    revenue       NUMERIC(12,2) NOT NULL,
    material_cost NUMERIC(12,2) NOT NULL,
    labor_cost    NUMERIC(12,2) NOT NULL,
    overhead_cost NUMERIC(12,2) NOT NULL,
    gross_profit  NUMERIC(12,2) NOT NULL
);

-- Indexes for fact lookups and incremental loads
CREATE INDEX IF NOT EXISTS idx_fact_production_date ON fact_production(date_id);
CREATE INDEX IF NOT EXISTS idx_fact_production_machine ON fact_production(machine_id);
CREATE INDEX IF NOT EXISTS idx_fact_production_product ON fact_production(product_id);
CREATE INDEX IF NOT EXISTS idx_fact_production_created ON fact_production(created_at);
CREATE INDEX IF NOT EXISTS idx_fact_inventory_date ON fact_inventory(date_id);
CREATE INDEX IF NOT EXISTS idx_fact_financial_date ON fact_financial(date_id);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_financial CASCADE;
DROP TABLE IF EXISTS fact_inventory CASCADE;
DROP TABLE IF EXISTS fact_production CASCADE;
DROP TABLE IF EXISTS dim_supplier CASCADE;
DROP TABLE IF EXISTS dim_product CASCADE;
DROP TABLE IF EXISTS dim_machine CASCADE;
DROP TABLE IF EXISTS dim_date CASCADE;
`

// factTables lists the tables reported by TableCounts, load-bearing first.
var factTables = []string{
	"dim_date", "dim_machine", "dim_product", "dim_supplier",
	"fact_production", "fact_inventory", "fact_financial",
}

// EnsureSchema idempotently creates all warehouse tables and indexes.
// Any DDL error is fatal: seeding must not proceed on a partial schema.
func EnsureSchema(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops all warehouse tables.
func DropSchema(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// SchemaExists reports whether the production fact table is present.
func SchemaExists(ctx context.Context, q db.Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = 'fact_production'
        )
    `).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schema: %w", err)
	}
	return exists, nil
}

// TableCounts returns row counts for every warehouse table.
func TableCounts(ctx context.Context, q db.Querier) (map[string]int64, error) {
	counts := make(map[string]int64, len(factTables))
	for _, table := range factTables {
		var count int64
		if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
