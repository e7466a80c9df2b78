package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/logging"
	"github.com/mfgstack/mfgetl/internal/warehouse"
)

var (
	initStartDate    string
	initEndDate      string
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the warehouse schema and seed dimensions",
	Long: `Create the star schema (date, machine, product and supplier dimensions
plus the production, inventory and financial fact tables), backfill the date
spine over the operative range, and seed the machine/product/supplier
reference rows. Safe to rerun: existing tables and seed rows are left alone.

Example:
  mfgetl init --start-date 2023-01-01 --end-date 2024-01-01`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initStartDate, "start-date", "",
		"first day of the date spine (YYYY-MM-DD, default: one year before end)")
	initCmd.Flags().StringVar(&initEndDate, "end-date", "",
		"last day of the date spine (YYYY-MM-DD, default: today)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop the existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initStartDate != "" {
		cfg.Init.StartDate = initStartDate
	}
	if initEndDate != "" {
		cfg.Init.EndDate = initEndDate
	}
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	if err := cfg.ValidateInit(); err != nil {
		return err
	}
	start, end, err := cfg.Init.DateRange()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	if cfg.Init.DropExisting {
		logging.Warn().Msg("Dropping existing schema")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return err
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := warehouse.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	if err := warehouse.SeedDates(ctx, pool, start, end); err != nil {
		return err
	}
	if err := warehouse.SeedDimensions(ctx, pool); err != nil {
		return err
	}

	if err := db.SaveSchemaMetadata(ctx, pool, warehouse.SchemaVersion); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Msg("Warehouse initialization complete")

	return nil
}
