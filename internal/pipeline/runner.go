//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline drives one generate-and-load cycle against the warehouse.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mfgstack/mfgetl/internal/datagen"
	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/loader"
	"github.com/mfgstack/mfgetl/internal/logging"
	"github.com/mfgstack/mfgetl/internal/warehouse"
)

// Runner holds everything one pipeline run needs. A Runner performs at most
// one cycle and does not retry; retries belong to the external orchestrator.
type Runner struct {
	// Connection is the PostgreSQL connection string.
	Connection string

	// Days is the historical window to generate, counted back from the
	// newest date dimension row.
	Days int

	// MinRecordsPerDay and MaxRecordsPerDay bound the per-day draw.
	MinRecordsPerDay int
	MaxRecordsPerDay int

	// BatchSize bounds rows per copy chunk.
	BatchSize int

	// Seed seeds the random source. Zero derives a seed from the clock.
	Seed int64
}

// Run executes one full cycle: connect, verify schema, read dimension keys,
// generate, validate, load, record run metadata. It returns the post-commit
// summary, or an error with no partial rows persisted.
func (r *Runner) Run(ctx context.Context) (*loader.Summary, error) {
	if r.Days < 1 {
		return nil, fmt.Errorf("days must be at least 1")
	}

	logging.Info().
		Int("days", r.Days).
		Int("min_per_day", r.MinRecordsPerDay).
		Int("max_per_day", r.MaxRecordsPerDay).
		Msg("Starting pipeline run")

	pool, err := db.Connect(ctx, r.Connection)
	if err != nil {
		return nil, fmt.Errorf("warehouse unreachable: %w", err)
	}
	defer pool.Close()

	exists, err := warehouse.SchemaExists(ctx, pool)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("warehouse schema not found; run 'mfgetl init' first")
	}

	dates, err := warehouse.DateKeys(ctx, pool, r.Days)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("date dimension is empty; run 'mfgetl init' first")
	}
	machines, err := warehouse.MachineIDs(ctx, pool)
	if err != nil {
		return nil, err
	}
	products, err := warehouse.ProductIDs(ctx, pool)
	if err != nil {
		return nil, err
	}

	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := datagen.NewGenerator(
		datagen.NewFakerWithSeed(uint64(seed)),
		datagen.Config{
			MinRecordsPerDay: r.MinRecordsPerDay,
			MaxRecordsPerDay: r.MaxRecordsPerDay,
		})

	records, err := gen.Generate(dates, machines, products)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	if err := datagen.ValidateBatch(records, machines, products); err != nil {
		return nil, fmt.Errorf("batch rejected: %w", err)
	}

	summary, err := loader.New(pool, r.BatchSize).Load(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}

	// Run bookkeeping is best effort: the data is already committed.
	if err := db.SaveRunMetadata(ctx, pool, summary.TotalRecords, summary.AverageOEE); err != nil {
		logging.Warn().Err(err).Msg("Failed to record run metadata")
	}

	logging.Info().
		Int64("total_records", summary.TotalRecords).
		Float64("avg_oee", summary.AverageOEE).
		Msg("Pipeline run complete")

	return summary, nil
}
