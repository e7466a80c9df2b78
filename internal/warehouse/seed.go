//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/logging"
)

// Reference data. Primary keys are stable so repeated seeding is a no-op.
var machines = []struct {
	id, name, machineType, location string
	installed                       string
	maintenanceDays                 int
}{
	{"M001", "CNC Milling Center 1", "CNC_MILL", "Building A - Bay 1", "2019-03-15", 90},
	{"M002", "Hydraulic Press 400T", "PRESS", "Building A - Bay 2", "2017-08-01", 60},
	{"M003", "Injection Molder X200", "INJECTION_MOLD", "Building B - Bay 1", "2020-01-20", 45},
	{"M004", "Assembly Robot AR-5", "ASSEMBLY_ROBOT", "Building B - Bay 3", "2021-06-10", 120},
	{"M005", "Precision Lathe PL-9", "LATHE", "Building A - Bay 4", "2018-11-05", 75},
}

var products = []struct {
	id, name, category  string
	unitPrice, costPrice float64
	weightKg             float64
	shelfLifeDays        int
}{
	{"P001", "Steel Bracket Assembly", "FABRICATED", 24.50, 11.20, 1.850, 0},
	{"P002", "Polymer Housing Unit", "MOLDED", 8.75, 3.10, 0.420, 1825},
	{"P003", "Drive Shaft Coupling", "MACHINED", 56.00, 31.40, 3.200, 0},
	{"P004", "Sensor Mount Plate", "FABRICATED", 12.30, 5.80, 0.650, 0},
	{"P005", "Sealed Bearing Kit", "ASSEMBLY", 39.90, 22.60, 0.980, 3650},
}

var suppliers = []struct {
	id, name, contact, country string
	rating, leadTimeDays       int
}{
	{"S001", "Nordic Alloys AB", "E. Lindqvist", "Sweden", 5, 21},
	{"S002", "Pacific Polymer Co", "T. Nakamura", "Japan", 4, 30},
	{"S003", "Midwest Castings LLC", "R. Alvarez", "United States", 4, 14},
}

// SeedDimensions inserts the machine, product and supplier reference rows,
// skipping any whose primary key already exists.
func SeedDimensions(ctx context.Context, q db.Querier) error {
	for _, m := range machines {
		installed, err := time.Parse("2006-01-02", m.installed)
		if err != nil {
			return fmt.Errorf("bad install date for %s: %w", m.id, err)
		}
		_, err = q.Exec(ctx, `
            INSERT INTO dim_machine
                (machine_id, machine_name, machine_type, location,
                 installation_date, maintenance_interval_days, status)
            VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE')
            ON CONFLICT (machine_id) DO NOTHING
        `, m.id, m.name, m.machineType, m.location, installed, m.maintenanceDays)
		if err != nil {
			return fmt.Errorf("failed to seed machine %s: %w", m.id, err)
		}
	}

	for _, p := range products {
		margin := 0.0
		if p.unitPrice > 0 {
			margin = round2((p.unitPrice - p.costPrice) / p.unitPrice * 100)
		}
		var shelfLife any
		if p.shelfLifeDays > 0 {
			shelfLife = p.shelfLifeDays
		}
		_, err := q.Exec(ctx, `
            INSERT INTO dim_product
                (product_id, product_name, category, unit_price, cost_price,
                 profit_margin, weight_kg, shelf_life_days)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (product_id) DO NOTHING
        `, p.id, p.name, p.category, p.unitPrice, p.costPrice, margin, p.weightKg, shelfLife)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.id, err)
		}
	}

	for _, s := range suppliers {
		_, err := q.Exec(ctx, `
            INSERT INTO dim_supplier
                (supplier_id, supplier_name, contact_name, country, rating, lead_time_days)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (supplier_id) DO NOTHING
        `, s.id, s.name, s.contact, s.country, s.rating, s.leadTimeDays)
		if err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", s.id, err)
		}
	}

	logging.Info().
		Int("machines", len(machines)).
		Int("products", len(products)).
		Int("suppliers", len(suppliers)).
		Msg("Seeded dimensions")

	return nil
}

// SeedDates backfills the date spine from start to end inclusive, skipping
// days already present.
func SeedDates(ctx context.Context, q db.Querier, start, end time.Time) error {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	if end.Before(start) {
		return fmt.Errorf("date spine end %s is before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	batch := &pgx.Batch{}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		batch.Queue(`
            INSERT INTO dim_date
                (full_date, day, month, quarter, year, day_of_week, day_name,
                 is_weekend, fiscal_year)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            ON CONFLICT (full_date) DO NOTHING
        `, d, d.Day(), int(d.Month()), quarterOf(d.Month()), d.Year(),
			int(wd), wd.String(), wd == time.Saturday || wd == time.Sunday,
			fiscalYear(d))
		days++
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < days; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed date spine: %w", err)
		}
	}

	logging.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("days", days).
		Msg("Seeded date spine")

	return nil
}

// quarterOf maps a calendar month to its quarter.
func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// fiscalYear returns the fiscal year for a date. The fiscal year begins
// in April and is named for the calendar year it starts in.
func fiscalYear(d time.Time) int {
	if d.Month() >= time.April {
		return d.Year()
	}
	return d.Year() - 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
