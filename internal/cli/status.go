package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/warehouse"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show warehouse metadata and table row counts",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	exists, err := warehouse.SchemaExists(ctx, pool)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("warehouse schema not found; run 'mfgetl init' first")
	}

	if ok, _ := db.MetadataExists(ctx, pool); ok {
		metadata, err := db.GetAllMetadata(ctx, pool)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("Warehouse metadata:")
		for _, k := range keys {
			cmd.Printf("  %-16s %s\n", k, metadata[k])
		}
		cmd.Println()
	}

	counts, err := warehouse.TableCounts(ctx, pool)
	if err != nil {
		return err
	}
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	cmd.Println("Table row counts:")
	for _, t := range tables {
		cmd.Printf("  %-16s %d\n", t, counts[t])
	}

	return nil
}
