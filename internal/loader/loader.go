//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader persists generated production batches into the warehouse.
package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mfgstack/mfgetl/internal/datagen"
	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/logging"
)

// factColumns lists fact_production insert columns in copy order.
var factColumns = []string{
	"date_id", "machine_id", "product_id", "shift_number", "operator_id",
	"quantity_produced", "defects", "rework_count", "downtime_minutes",
	"setup_time_minutes", "quality_score", "inspection_passed",
	"energy_consumption_kwh", "raw_material_used_kg", "scrap_weight_kg",
	"oee_percentage", "availability_percentage", "performance_percentage",
	"quality_percentage", "start_time", "end_time",
}

// Summary describes a completed load, read back from the warehouse after
// commit to confirm durability.
type Summary struct {
	TotalRecords    int64
	EarliestStart   time.Time
	LatestStart     time.Time
	TotalProduction int64
	AverageOEE      float64
}

// Format renders the human-readable summary block printed after a run.
func (s *Summary) Format() string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "ETL SUCCESS SUMMARY")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total records: %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "Date range: %s to %s\n",
		s.EarliestStart.Format("2006-01-02 15:04"),
		s.LatestStart.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total production: %d units\n", s.TotalProduction)
	fmt.Fprintf(&b, "Average OEE: %.2f%%\n", s.AverageOEE)
	fmt.Fprint(&b, rule)
	return b.String()
}

// Loader appends production batches to fact_production.
type Loader struct {
	db        db.Querier
	batchSize int
}

// New creates a Loader. batchSize bounds the rows per copy chunk.
func New(q db.Querier, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = 500
	}
	return &Loader{db: q, batchSize: batchSize}
}

// Load persists the batch as a single transaction: either every record
// commits or none do. After a successful commit it refreshes planner
// statistics (best effort) and reads back the load summary.
func (l *Loader) Load(ctx context.Context, records []datagen.ProductionRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to load")
	}

	if err := l.insertAll(ctx, records); err != nil {
		return nil, err
	}

	// Statistics refresh is independent of the load: a failure here is
	// logged and the run continues.
	if _, err := l.db.Exec(ctx, "ANALYZE fact_production"); err != nil {
		logging.Warn().Err(err).Msg("Statistics refresh failed after load")
	}

	return l.summary(ctx)
}

func (l *Loader) insertAll(ctx context.Context, records []datagen.ProductionRecord) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	progress := datagen.NewProgressReporter("fact_production",
		int64(len(records)), int64(l.batchSize))

	for start := 0; start < len(records); start += l.batchSize {
		end := min(start+l.batchSize, len(records))
		chunk := records[start:end]

		rows := make([][]any, 0, len(chunk))
		for _, r := range chunk {
			rows = append(rows, []any{
				r.DateID, r.MachineID, r.ProductID, r.ShiftNumber, r.OperatorID,
				r.QuantityProduced, r.Defects, r.ReworkCount, r.DowntimeMinutes,
				r.SetupTimeMinutes, r.QualityScore, r.InspectionPassed,
				r.EnergyConsumptionKWh, r.RawMaterialUsedKg, r.ScrapWeightKg,
				r.OEEPercentage, r.AvailabilityPercentage, r.PerformancePercentage,
				r.QualityPercentage, r.StartTime, r.EndTime,
			})
		}

		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"fact_production"}, factColumns,
			pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("batch insert failed, rolling back: %w", err)
		}
		progress.Update(copied)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	progress.Done()
	return nil
}

func (l *Loader) summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := l.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            MIN(start_time),
            MAX(start_time),
            SUM(quantity_produced),
            ROUND(AVG(oee_percentage), 2)
        FROM fact_production
    `).Scan(&s.TotalRecords, &s.EarliestStart, &s.LatestStart,
		&s.TotalProduction, &s.AverageOEE)
	if err != nil {
		return nil, fmt.Errorf("failed to read load summary: %w", err)
	}
	return &s, nil
}
