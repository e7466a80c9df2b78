package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/warehouse"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run data-quality checks against the loaded facts",
	Long: `Run the data-quality check catalog against fact_production: defect cap,
percentage bounds, referential integrity, production window ordering, and
fact presence. Intended as the post-load step of a scheduled pipeline; exits
non-zero if any check fails.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	results, err := warehouse.RunChecks(ctx, pool)
	if err != nil {
		return err
	}

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		cmd.Printf("%-20s %s (%d violations)\n", r.Name, status, r.Violations)
	}

	if failed := warehouse.FailedChecks(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d quality checks failed", len(failed), len(results))
	}

	cmd.Println("All quality checks passed")
	return nil
}
